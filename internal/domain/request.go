package domain

// StartResponse is returned by POST /chat/start.
type StartResponse struct {
	SessionID string `json:"sessionId"`
}

// MessageRequest is the body of POST /chat/message.
type MessageRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

// MessageResponse is returned by POST /chat/message.
type MessageResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
