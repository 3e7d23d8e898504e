package voice

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"productInfoAgent/domain"
	"productInfoAgent/pkg/logger"
	"strconv"
	"strings"
	"time"

	"github.com/pobyzaarif/goshortcute"
	"golang.org/x/crypto/blake2b"
)

// MaxEntriesPerSession bounds every session's voice cache.
const MaxEntriesPerSession = 10

type Synthesizer interface {
	Synthesize(ctx context.Context, text, model, apiKey string) ([]byte, error)
}

// SessionCache stores synthesized clips per session. Implementations keep at
// most MaxEntriesPerSession entries and evict the oldest inserted first.
type SessionCache interface {
	Get(ctx context.Context, sessionID, key string) (domain.VoiceCacheEntry, bool, error)
	Put(ctx context.Context, sessionID, key string, entry domain.VoiceCacheEntry) error
	Delete(ctx context.Context, sessionID, key string) error
}

type SettingsProvider interface {
	VoiceEnabled(ctx context.Context) (bool, error)
	DeepgramAPIKey(ctx context.Context) (string, error)
	VoiceModel(ctx context.Context) (string, error)
	VoiceCacheLifetimeMinutes(ctx context.Context) (int, error)
}

type voiceService struct {
	settings    SettingsProvider
	synthesizer Synthesizer
	cache       SessionCache
	now         func() time.Time
}

func NewVoiceService(settings SettingsProvider, synthesizer Synthesizer, cache SessionCache) *voiceService {
	return &voiceService{
		settings:    settings,
		synthesizer: synthesizer,
		cache:       cache,
		now:         time.Now,
	}
}

func (s *voiceService) Generate(ctx context.Context, req domain.VoiceRequest) (domain.VoiceResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.VoiceResult{}, fmt.Errorf("context error: %w", err)
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return domain.VoiceResult{}, errors.New("text is required")
	}

	enabled, err := s.settings.VoiceEnabled(ctx)
	if err != nil {
		return domain.VoiceResult{}, err
	}
	if !enabled {
		return domain.VoiceResult{}, domain.ErrVoiceDisabled
	}

	apiKey, err := s.settings.DeepgramAPIKey(ctx)
	if err != nil {
		return domain.VoiceResult{}, err
	}
	if apiKey == "" {
		return domain.VoiceResult{}, domain.ErrVoiceNotConfigured
	}

	model, err := s.settings.VoiceModel(ctx)
	if err != nil {
		return domain.VoiceResult{}, err
	}

	key := CacheKey(text, model, req.ProductID, req.SessionID)

	if cached, ok := s.lookup(ctx, req.SessionID, key); ok {
		VoiceRequestsTotal.WithLabelValues("cache_hit").Inc()
		return domain.VoiceResult{AudioData: cached, FromCache: true, Text: text}, nil
	}

	audio, err := s.synthesizer.Synthesize(ctx, text, model, apiKey)
	if err != nil {
		VoiceRequestsTotal.WithLabelValues("error").Inc()
		logger.Error("Failed to synthesize voice", "model", model, "error", err)
		return domain.VoiceResult{}, fmt.Errorf("%w: %v", domain.ErrVoiceSynthesis, err)
	}
	if len(audio) == 0 {
		VoiceRequestsTotal.WithLabelValues("error").Inc()
		return domain.VoiceResult{}, domain.ErrVoiceSynthesis
	}

	encoded := goshortcute.StringtoBase64Encode(string(audio))

	if req.SessionID != "" {
		entry := domain.VoiceCacheEntry{Data: encoded, Timestamp: s.now().UTC().Unix()}
		if err := s.cache.Put(ctx, req.SessionID, key, entry); err != nil {
			logger.Warn("voice_cache_put_failed", "error", err)
		}
	}

	VoiceRequestsTotal.WithLabelValues("synthesized").Inc()
	return domain.VoiceResult{AudioData: encoded, FromCache: false, Text: text, Model: model}, nil
}

// lookup returns a cached clip younger than the configured lifetime and
// removes an expired one.
func (s *voiceService) lookup(ctx context.Context, sessionID, key string) (string, bool) {
	if sessionID == "" {
		return "", false
	}

	entry, ok, err := s.cache.Get(ctx, sessionID, key)
	if err != nil {
		logger.Warn("voice_cache_get_failed", "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}

	minutes, err := s.settings.VoiceCacheLifetimeMinutes(ctx)
	if err != nil {
		logger.Warn("voice_setting_read_failed", "setting", "cache_lifetime", "error", err)
	}

	age := s.now().UTC().Unix() - entry.Timestamp
	if age < int64(minutes)*60 {
		return entry.Data, true
	}

	if err := s.cache.Delete(ctx, sessionID, key); err != nil {
		logger.Warn("voice_cache_delete_failed", "error", err)
	}
	return "", false
}

// CacheKey is the hex blake2b-256 digest of text, model, product and session.
func CacheKey(text, model string, productID *uint64, sessionID string) string {
	var pid uint64
	if productID != nil {
		pid = *productID
	}

	raw := text + "_" + model + "_" + strconv.FormatUint(pid, 10) + "_" + sessionID
	sum := blake2b.Sum256([]byte(raw))
	return "voice_" + hex.EncodeToString(sum[:])
}
