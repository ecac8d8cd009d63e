package moderation

// ModerationRequest is published to moderation.check by the chat pipeline
// for every message sent between a buyer and a seller.
type ModerationRequest struct {
	MessageID string `json:"message_id"`
	ChatID    string `json:"chat_id"`
	UserID    int64  `json:"user_id,omitempty"` // author; zero skips enforcement
	Text      string `json:"text"`
	Ts        int64  `json:"ts"`
}

// ModerationResult is published back on moderation.result.<chat_id>.
type ModerationResult struct {
	MessageID        string `json:"message_id"`
	ChatID           string `json:"chat_id"`
	UserID           int64  `json:"user_id,omitempty"`
	Blocked          bool   `json:"blocked"`
	Rule             Rule   `json:"rule,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Censored         string `json:"censored"`
	EnforcementError string `json:"enforcement_error,omitempty"`
}
