package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/MolodoyDEV/diploma/internal/domain/service"
)

// DefaultTranslateURL is the public Google Translate web endpoint
const DefaultTranslateURL = "https://translate.googleapis.com"

// ErrEmptyTranslation is returned when the upstream answers without any translated text
var ErrEmptyTranslation = errors.New("empty translation")

// GoogleTranslatorConfig holds the translator client settings
type GoogleTranslatorConfig struct {
	BaseURL string
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures that opens the breaker
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open before probing again
	BreakerCooldown time.Duration
}

// GoogleTranslator is an HTTP client for the Google Translate web API
type GoogleTranslator struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewGoogleTranslator creates a new translator client
func NewGoogleTranslator(cfg GoogleTranslatorConfig, logger *zap.Logger) *GoogleTranslator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTranslateURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}

	failures := cfg.BreakerFailures
	settings := gobreaker.Settings{
		Name:        "google-translate",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &GoogleTranslator{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

var _ service.Translator = (*GoogleTranslator)(nil)

// Translate translates text from source to target. source may be service.AutoDetect.
func (c *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.translate(ctx, text, source, target)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("translator unavailable: %w", err)
		}
		return "", err
	}

	return out.(string), nil
}

// State returns the circuit breaker state
func (c *GoogleTranslator) State() string {
	return c.cb.State().String()
}

func (c *GoogleTranslator) translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate_a/single", strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 512))
		if err != nil {
			return "", fmt.Errorf("translate service returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("translate service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	translated, err := parseSentences(payload)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(translated) == "" {
		return "", ErrEmptyTranslation
	}

	return translated, nil
}

// parseSentences joins the translated segments of a gtx response:
// [[["<translated>","<original>",...],...],null,"<detected source>",...]
func parseSentences(payload []json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("failed to decode response: empty payload")
	}

	var sentences [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &sentences); err != nil {
		return "", fmt.Errorf("failed to decode sentences: %w", err)
	}

	var b strings.Builder
	for _, sentence := range sentences {
		if len(sentence) == 0 {
			continue
		}
		var segment *string
		if err := json.Unmarshal(sentence[0], &segment); err != nil {
			return "", fmt.Errorf("failed to decode sentence: %w", err)
		}
		if segment != nil {
			b.WriteString(*segment)
		}
	}

	return b.String(), nil
}
