package models

import "time"

// ChatRequest is the inbound payload for the assistant chat endpoint
type ChatRequest struct {
	Message string `json:"message" binding:"required,min=1,max=2000"`
}

// ChatMetadata accompanies every successful chat reply
type ChatMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model"`
	Tokens    int       `json:"tokens,omitempty"`
}

// ChatResponse is the outbound payload for the assistant chat endpoint
type ChatResponse struct {
	Reply     string       `json:"reply"`
	MediaClip string       `json:"media_clip"`
	Metadata  ChatMetadata `json:"metadata"`
}

// BootstrapResponse seeds the admin panel UI: the anti-forgery nonce, the
// current admin identity and the localized strings the panel displays.
type BootstrapResponse struct {
	Nonce            string            `json:"nonce"`
	UserID           string            `json:"user_id"`
	UserName         string            `json:"user_name"`
	Enabled          bool              `json:"enabled"`
	APIKeyConfigured bool              `json:"api_key_configured"`
	Strings          map[string]string `json:"strings"`
}
