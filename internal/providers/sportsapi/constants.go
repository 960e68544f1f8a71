package sportsapi

import "time"

const (
	defaultBaseURL     = "https://api.sportsdata.example/v1"
	defaultHTTPTimeout = 10 * time.Second
	apiKeyHeader       = "X-API-Key"
	errorBodyLimit     = 512
)
