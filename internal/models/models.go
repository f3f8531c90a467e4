package models

// StatusResponse is the generic success envelope handlers return for
// operations without a natural result entity.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
