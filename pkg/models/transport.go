package models

// CompressRequest is the JSON body of POST /compress.
// Exactly one of URL or Base64 must be set. Quality is a pointer so an
// explicit 0 (clamped to 1) can be told apart from an absent value.
type CompressRequest struct {
	URL     string `json:"url,omitempty"`
	Base64  string `json:"base64,omitempty"`
	Quality *int   `json:"quality,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Format  string `json:"format,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// InfoResponse is the GET / status payload
type InfoResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Engine  string `json:"engine"`
	Time    string `json:"time"`
}

// ProxyRequest is the JSON body of the curl proxy route
type ProxyRequest struct {
	Curl string `json:"curl"`
}

// ProxyRequestConfig echoes the converted outbound request in error replies
type ProxyRequestConfig struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

// ProxyErrorResponse is the fixed-shape proxy failure envelope. AxiosConfig
// is present only when the curl command converted before the failure; the
// field name is part of the wire contract consumed by existing clients.
type ProxyErrorResponse struct {
	Code        string              `json:"code"`
	Message     string              `json:"message"`
	AxiosConfig *ProxyRequestConfig `json:"axiosConfig,omitempty"`
}
