package handlers

// TargetRequest - attach/detach 요청 바디
type TargetRequest struct {
	InstanceID string `json:"instanceId"`
}

// ErrorResponse is the JSON body returned on every failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON body of the health check.
type HealthResponse struct {
	Status string `json:"status"`
}
