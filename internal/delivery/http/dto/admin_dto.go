package dto

// BotKeyRequest represents the bot wallet key configuration
type BotKeyRequest struct {
	PrivateKey string `json:"private_key"`
}

// APIKeyRequest represents one entry of the API key matrix
type APIKeyRequest struct {
	Value string `json:"value"`
}
