package domain

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrStockItemNotFound  = errors.New("stock item not found")
	ErrSettingNotFound    = errors.New("setting not found")
	ErrInvalidSetting     = errors.New("invalid setting value")
	ErrVoiceDisabled      = errors.New("voice feature is disabled")
	ErrVoiceNotConfigured = errors.New("deepgram api key not configured")
	ErrVoiceSynthesis     = errors.New("failed to generate voice audio")
)
