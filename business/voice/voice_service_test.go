package voice

import (
	"context"
	"encoding/base64"
	"errors"
	"productInfoAgent/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	enabled  bool
	apiKey   string
	model    string
	lifetime int
}

func (f *fakeSettings) VoiceEnabled(ctx context.Context) (bool, error) { return f.enabled, nil }
func (f *fakeSettings) DeepgramAPIKey(ctx context.Context) (string, error) { return f.apiKey, nil }
func (f *fakeSettings) VoiceModel(ctx context.Context) (string, error) { return f.model, nil }
func (f *fakeSettings) VoiceCacheLifetimeMinutes(ctx context.Context) (int, error) {
	return f.lifetime, nil
}

type fakeSynth struct {
	calls int
	audio []byte
	err   error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, model, apiKey string) ([]byte, error) {
	f.calls++
	return f.audio, f.err
}

func newVoiceFixture() (*voiceService, *fakeSettings, *fakeSynth, *time.Time) {
	settings := &fakeSettings{enabled: true, apiKey: "dg-key", model: "nova-2", lifetime: 60}
	synth := &fakeSynth{audio: []byte("RIFF-audio")}
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	svc := NewVoiceService(settings, synth, NewMemoryCache(time.Hour))
	svc.now = func() time.Time { return now }
	return svc, settings, synth, &now
}

func TestGenerate_SynthesizesThenCaches(t *testing.T) {
	svc, _, synth, _ := newVoiceFixture()
	ctx := context.Background()
	req := domain.VoiceRequest{Text: "Tell me more", SessionID: "s1"}

	first, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, "nova-2", first.Model)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("RIFF-audio")), first.AudioData)

	second, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.AudioData, second.AudioData)
	assert.Equal(t, 1, synth.calls)
}

func TestGenerate_ExpiredEntryIsRegenerated(t *testing.T) {
	svc, _, synth, now := newVoiceFixture()
	ctx := context.Background()
	req := domain.VoiceRequest{Text: "Hello", SessionID: "s1"}

	_, err := svc.Generate(ctx, req)
	require.NoError(t, err)

	*now = now.Add(60 * time.Minute)
	res, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 2, synth.calls)
}

func TestGenerate_NoSessionSkipsCache(t *testing.T) {
	svc, _, synth, _ := newVoiceFixture()
	ctx := context.Background()

	_, err := svc.Generate(ctx, domain.VoiceRequest{Text: "Hello"})
	require.NoError(t, err)
	_, err = svc.Generate(ctx, domain.VoiceRequest{Text: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, 2, synth.calls)
}

func TestGenerate_Errors(t *testing.T) {
	ctx := context.Background()

	svc, settings, _, _ := newVoiceFixture()
	settings.enabled = false
	_, err := svc.Generate(ctx, domain.VoiceRequest{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrVoiceDisabled)

	svc, settings, _, _ = newVoiceFixture()
	settings.apiKey = ""
	_, err = svc.Generate(ctx, domain.VoiceRequest{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrVoiceNotConfigured)

	svc, _, synth, _ := newVoiceFixture()
	synth.err = errors.New("http 401")
	_, err = svc.Generate(ctx, domain.VoiceRequest{Text: "x", SessionID: "s"})
	assert.ErrorIs(t, err, domain.ErrVoiceSynthesis)

	svc, _, _, _ = newVoiceFixture()
	_, err = svc.Generate(ctx, domain.VoiceRequest{Text: "   "})
	assert.Error(t, err)
}

func TestCacheKey(t *testing.T) {
	pid := uint64(3)
	a := CacheKey("hi", "nova-2", &pid, "s1")

	assert.Equal(t, a, CacheKey("hi", "nova-2", &pid, "s1"))
	assert.NotEqual(t, a, CacheKey("hi", "nova-2", nil, "s1"))
	assert.NotEqual(t, a, CacheKey("hi", "aura", &pid, "s1"))
	assert.Len(t, a, len("voice_")+64)
}
