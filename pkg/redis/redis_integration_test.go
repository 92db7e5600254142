//go:build integration

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
)

// 运行方式: TEST_REDIS_ADDR=localhost:6379 go test -tags=integration ./pkg/redis/...

func setupTestClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置 TEST_REDIS_ADDR，跳过 Redis 集成测试")
	}
	c, err := NewClient(&config.RedisConfig{Addr: addr, DB: 15}, zap.NewNop())
	if err != nil {
		t.Fatalf("连接 Redis 失败: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestIntegration_LockIsExclusive(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()
	name := "test-" + time.Now().Format("150405.000")

	token, ok, err := c.AcquireLock(ctx, name, time.Minute)
	if err != nil || !ok {
		t.Fatalf("首次获取锁应成功: ok=%v err=%v", ok, err)
	}

	_, ok, err = c.AcquireLock(ctx, name, time.Minute)
	if err != nil {
		t.Fatalf("重复获取锁不应报错: %v", err)
	}
	if ok {
		t.Fatal("锁被持有期间不应再次获取成功")
	}

	if err := c.ReleaseLock(ctx, name, "other-token"); err != nil {
		t.Fatalf("释放他人锁不应报错: %v", err)
	}
	if _, ok, _ := c.AcquireLock(ctx, name, time.Minute); ok {
		t.Fatal("他人令牌不应释放锁")
	}

	if err := c.ReleaseLock(ctx, name, token); err != nil {
		t.Fatalf("释放锁失败: %v", err)
	}
	if _, ok, _ := c.AcquireLock(ctx, name, time.Minute); !ok {
		t.Fatal("释放后应能重新获取锁")
	}
}

func TestIntegration_RateLimit(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()
	key := "rate_limit:test:" + time.Now().Format("150405.000")

	for i := 0; i < 3; i++ {
		allowed, err := c.CheckRateLimit(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("限流检查失败: %v", err)
		}
		if !allowed {
			t.Fatalf("第 %d 次请求应放行", i+1)
		}
	}
	allowed, _ := c.CheckRateLimit(ctx, key, 3, time.Minute)
	if allowed {
		t.Error("超过限额后应拒绝")
	}
}

func TestIntegration_JSONCache(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()
	key := "cache:test:" + time.Now().Format("150405.000")

	var got []string
	if err := c.GetJSON(ctx, key, &got); err != ErrCacheMiss {
		t.Fatalf("期望 ErrCacheMiss，实际 %v", err)
	}
	if err := c.SetJSON(ctx, key, []string{"Main Auditorium"}, time.Minute); err != nil {
		t.Fatalf("写入缓存失败: %v", err)
	}
	if err := c.GetJSON(ctx, key, &got); err != nil {
		t.Fatalf("读取缓存失败: %v", err)
	}
	if len(got) != 1 || got[0] != "Main Auditorium" {
		t.Errorf("缓存内容不符: %v", got)
	}
}
