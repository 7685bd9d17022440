package dto

import "time"

type CreateInputRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

// UpdateInputRequest is a partial update; absent fields are left alone.
// Enum values are validated by the service.
type UpdateInputRequest struct {
	Text     *string `json:"text,omitempty" binding:"omitempty,min=1"`
	Category *string `json:"category,omitempty"`
	Intent   *string `json:"intent,omitempty"`
	Severity *string `json:"severity,omitempty"`
	Source   *string `json:"source,omitempty"`
	Status   *string `json:"status,omitempty"`
}

type InputResponse struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	Category  string     `json:"category"`
	Intent    string     `json:"intent"`
	Severity  string     `json:"severity"`
	Source    string     `json:"source"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"created_at"`
}

type DeleteInputResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
