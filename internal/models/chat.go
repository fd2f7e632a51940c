package models

type ChatRequest struct {
	// capped so a single request cannot exhaust the assistant's context
	Message string `json:"message" binding:"max=4000"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
