package dto

// StatusResponse is the envelope for mutating endpoints.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK builds a successful envelope.
func OK(message string) StatusResponse {
	return StatusResponse{Success: true, Message: message}
}

// Fail builds a failed envelope.
func Fail(message string) StatusResponse {
	return StatusResponse{Success: false, Message: message}
}
