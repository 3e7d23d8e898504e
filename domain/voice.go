package domain

type VoiceRequest struct {
	Text      string
	ProductID *uint64
	SessionID string
}

type VoiceResult struct {
	AudioData string `json:"audio_data"`
	FromCache bool   `json:"from_cache"`
	Text      string `json:"text"`
	Model     string `json:"model,omitempty"`
}

// VoiceCacheEntry is a synthesized clip kept in the session cache.
// Data is base64 encoded audio; Timestamp is unix seconds (UTC).
type VoiceCacheEntry struct {
	Data      string `json:"data"`
	Timestamp int64  `json:"timestamp"`
}
