package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client 封裝 go-redis 客戶端
type Client struct {
	rdb *redis.Client
}

// NewClient 建立並回傳一個新的 Redis 客戶端實例
// 與 MySQL 相同，啟動時服務可能還沒就緒，重試有限次數
func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	maxRetries := 10
	retryInterval := 2 * time.Second

	var err error
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, err)
	}

	return &Client{rdb: rdb}, nil
}

// NewClientFromRDB 直接以現成的 go-redis 客戶端建立實例（測試用）
func NewClientFromRDB(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// RDB 回傳底層的 go-redis 客戶端
func (c *Client) RDB() *redis.Client {
	return c.rdb
}

// Close 關閉連線
func (c *Client) Close() error {
	return c.rdb.Close()
}
