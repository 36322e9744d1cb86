package models

// ErrorResponse is the JSON body the backend returns alongside non-2xx
// responses.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// AckResponse is returned by endpoints that only acknowledge an action.
type AckResponse struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}
