package generator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const explanationTTL = 24 * time.Hour

// Explainer is the explanation half of the question service contract.
type Explainer interface {
	Explain(ctx context.Context, questionID string) (string, error)
}

// ExplanationCache fronts the explanation service with redis. Explanations
// for a question id are stable, so a cache hit skips the remote call
// entirely; cache failures fall through to the service.
type ExplanationCache struct {
	upstream Explainer
	client   *redis.Client
	logger   *slog.Logger
}

func NewExplanationCache(upstream Explainer, client *redis.Client, logger *slog.Logger) *ExplanationCache {
	return &ExplanationCache{
		upstream: upstream,
		client:   client,
		logger:   logger,
	}
}

func (c *ExplanationCache) Explain(ctx context.Context, questionID string) (string, error) {
	key := "explanation:" + questionID

	if c.client != nil {
		cached, err := c.client.Get(ctx, key).Result()
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Explanation cache read failed", "key", key, "error", err)
		}
	}

	explanation, err := c.upstream.Explain(ctx, questionID)
	if err != nil {
		return "", err
	}

	if c.client != nil && explanation != "" {
		if err := c.client.Set(ctx, key, explanation, explanationTTL).Err(); err != nil {
			c.logger.Warn("Explanation cache write failed", "key", key, "error", err)
		}
	}
	return explanation, nil
}
