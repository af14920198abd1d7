package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fyerfyer/resume-parser/internal/resume"
)

// ResultCache 以简历原文的SHA-256为键缓存解析结果
type ResultCache struct {
	cache Cache
	ttl   time.Duration
}

// NewResultCache 创建解析结果缓存
func NewResultCache(c Cache, ttl time.Duration) *ResultCache {
	return &ResultCache{cache: c, ttl: ttl}
}

// ResultKey 计算文本对应的缓存键
func ResultKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return GenerateCacheKey("parse", hex.EncodeToString(sum[:]))
}

// Get 查找缓存的解析结果
func (c *ResultCache) Get(ctx context.Context, text string) (*resume.ParseResult, bool, error) {
	raw, found, err := c.cache.Get(ctx, ResultKey(text))
	if err != nil || !found {
		return nil, false, err
	}

	var result resume.ParseResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		// 损坏的缓存项直接丢弃
		_ = c.cache.Delete(ctx, ResultKey(text))
		return nil, false, nil
	}
	return &result, true, nil
}

// Set 缓存解析结果
func (c *ResultCache) Set(ctx context.Context, text string, result *resume.ParseResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal parse result: %w", err)
	}
	return c.cache.Set(ctx, ResultKey(text), string(data), c.ttl)
}
