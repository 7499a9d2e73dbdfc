package api

// APIResponse is the envelope every handler replies with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the HTTP front end.
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
}
