package dto

// URLExtractRequest asks for a draft from a public event page.
type URLExtractRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ChatRequest is one user turn of the conversational extraction.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}
