package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized matches any error produced by a 401 response.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// newAPIError prefers the backend's own error text over fallback.
func newAPIError(resp *resty.Response, fallback string) *APIError {

	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Message:    fallback,
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && len(body.Error) > 0 {
		apiErr.Message = body.Error
	}

	return apiErr
}

func checkResponse(resp *resty.Response, fallback string) error {
	if resp.IsSuccess() {
		return nil
	}
	return newAPIError(resp, fallback)
}

func decodeResponse[T any](resp *resty.Response, fallback string) (*T, error) {

	if err := checkResponse(resp, fallback); err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%s: invalid response body: %w", fallback, err)
	}

	return &out, nil
}
