package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-account-system/internal/app/account/usecase"
	"github.com/JoeShih716/go-account-system/pkg/redis"
)

// lockKeyPrefix 鎖的 key 前綴，避免與其他資料混用同一個 namespace
const lockKeyPrefix = "LOCK:"

// LockCoordinator 以 Redis 實作帳戶互斥鎖
//
// Acquire 依賴 SET NX PX 的原子性：只有 key 不存在（或已過期）時才寫入成功。
// 鎖是 advisory 且帶有效期限：持有者崩潰時鎖會自然過期，
// 失去的只是該期限內的公平性，不是系統活性。
//
// 所有傳輸層錯誤都在這裡吞掉：記 log 後當作「沒搶到鎖」處理，
// 不會轉成獨立的錯誤種類往上傳
type LockCoordinator struct {
	client *redis.Client
	logger *zap.Logger
	// token 本實例的持有者標記，只作為除錯時辨識持有者用
	token string
}

func NewLockCoordinator(client *redis.Client, logger *zap.Logger) *LockCoordinator {
	return &LockCoordinator{
		client: client,
		logger: logger,
		token:  uuid.NewString(),
	}
}

// Acquire 嘗試取鎖，競爭失敗或 Redis 異常都回傳 false
func (l *LockCoordinator) Acquire(ctx context.Context, key string, timeout time.Duration) bool {
	ok, err := l.client.RDB().SetNX(ctx, lockKeyPrefix+key, l.token, timeout).Result()
	if err != nil {
		l.logger.Error("failed to acquire redis lock",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return ok
}

// Release 無條件刪除鎖，失敗只記 log（鎖最終會因逾時過期）
func (l *LockCoordinator) Release(ctx context.Context, key string) {
	if err := l.client.RDB().Del(ctx, lockKeyPrefix+key).Err(); err != nil {
		l.logger.Error("failed to release redis lock",
			zap.String("key", key),
			zap.Error(err))
	}
}

func (l *LockCoordinator) IsHeld(ctx context.Context, key string) bool {
	n, err := l.client.RDB().Exists(ctx, lockKeyPrefix+key).Result()
	if err != nil {
		l.logger.Error("failed to check redis lock status",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return n > 0
}

// Extend 延長既有鎖的期限，鎖不存在或 Redis 異常都回傳 false
func (l *LockCoordinator) Extend(ctx context.Context, key string, timeout time.Duration) bool {
	ok, err := l.client.RDB().Expire(ctx, lockKeyPrefix+key, timeout).Result()
	if err != nil {
		l.logger.Error("failed to extend redis lock",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return ok
}

// ForceRelease 強制刪除鎖並回報是否真的刪除了
func (l *LockCoordinator) ForceRelease(ctx context.Context, key string) bool {
	n, err := l.client.RDB().Del(ctx, lockKeyPrefix+key).Result()
	if err != nil {
		l.logger.Error("failed to force release redis lock",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return n > 0
}

var _ usecase.LockCoordinator = (*LockCoordinator)(nil)
