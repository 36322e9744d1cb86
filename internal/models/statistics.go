package models

type ConnectionRecord struct {
	Timestamp string `json:"timestamp"`
	Location  string `json:"location"`
	Duration  int64  `json:"duration"`
}

type Statistics struct {
	DataTransferred   int64              `json:"dataTransferred"`
	RequestsBlocked   int64              `json:"requestsBlocked"`
	Uptime            int64              `json:"uptime"`
	ConnectionHistory []ConnectionRecord `json:"connectionHistory"`
}
