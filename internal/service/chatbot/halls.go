package chatbot

import (
	"context"
	"strings"
	"time"
)

// HallRef 礼堂名称解析用的最小信息
type HallRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Cache 礼堂名称缓存（Redis），nil 表示不缓存
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// InvalidateHalls 清除礼堂名称缓存，礼堂新增或改名后调用
func InvalidateHalls(ctx context.Context, c Cache) error {
	if c == nil {
		return nil
	}
	return c.Delete(ctx, hallCacheKey)
}

const (
	hallCacheKey = "chatbot:halls"
	hallCacheTTL = 60 * time.Second
)

// ResolveHall 不区分大小写的子串匹配，多个命中时取名称最长者，长度相同取先出现者
func ResolveHall(message string, halls []HallRef) *HallRef {
	names := make([]string, len(halls))
	for i := range halls {
		names[i] = halls[i].Name
	}
	if i := matchName(message, names); i >= 0 {
		return &halls[i]
	}
	return nil
}

// matchName 在候选名称中找出消息里出现的最长者，返回下标，未命中返回 -1
func matchName(message string, names []string) int {
	msg := strings.ToLower(message)
	best, bestLen := -1, 0
	for i, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && len(n) > bestLen && strings.Contains(msg, n) {
			best, bestLen = i, len(n)
		}
	}
	return best
}
