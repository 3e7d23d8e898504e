package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"productInfoAgent/business/voice"
	"productInfoAgent/pkg/logger"
	"time"
)

type DeepgramConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DeepgramRepository calls the Deepgram text-to-speech endpoint.
type DeepgramRepository struct {
	deepgramConfig DeepgramConfig
	client         *http.Client
}

var _ voice.Synthesizer = (*DeepgramRepository)(nil)

func NewDeepgramRepository(cfg DeepgramConfig) *DeepgramRepository {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DeepgramRepository{
		deepgramConfig: cfg,
		client:         &http.Client{Timeout: timeout},
	}
}

type payloadSpeak struct {
	Text string `json:"text"`
}

// Synthesize returns the raw audio bytes for text spoken with model.
func (r *DeepgramRepository) Synthesize(ctx context.Context, text, model, apiKey string) ([]byte, error) {
	endpoint := r.deepgramConfig.BaseURL + "/v1/speak?model=" + url.QueryEscape(model)

	payloadByte, err := json.Marshal(payloadSpeak{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payloadByte))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Token "+apiKey)

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read deepgram response: %w", err)
	}

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return body, nil
	}

	logger.Error("Deepgram API error", "status", res.StatusCode, "response", string(body))
	return nil, fmt.Errorf("speech service return negative response %v", res.StatusCode)
}
