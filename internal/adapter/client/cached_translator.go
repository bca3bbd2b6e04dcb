package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/MolodoyDEV/diploma/internal/domain/service"
)

// TranslationCache stores translated text by key
type TranslationCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedTranslator serves repeated translations from a cache.
// Cache failures are logged and fall through to the wrapped translator.
type CachedTranslator struct {
	next   service.Translator
	cache  TranslationCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTranslator wraps next with a cache
func NewCachedTranslator(next service.Translator, cache TranslationCache, ttl time.Duration, logger *zap.Logger) *CachedTranslator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTranslator{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

var _ service.Translator = (*CachedTranslator)(nil)

// Translate implements service.Translator
func (c *CachedTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := cacheKey(text, source, target)

	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("Translation cache read failed", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	translated, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, translated, c.ttl); err != nil {
		c.logger.Warn("Translation cache write failed", zap.Error(err))
	}

	return translated, nil
}

func cacheKey(text, source, target string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(target))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
