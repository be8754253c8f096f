package schema

// ErrorResponse is the JSON error body returned by the HTTP API.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// CloudError is the error envelope returned by Google REST endpoints.
type CloudError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
