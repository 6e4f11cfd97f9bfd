package memory

import (
	"context"
	"sync"
	"time"

	"github.com/JoeShih716/go-account-system/internal/app/account/usecase"
)

// LockCoordinator 是行程內的帳戶互斥鎖，語意與 Redis 版一致：
// set-if-absent 加上有效期限，到期自動失效
// 供單機開發模式與單元測試使用
type LockCoordinator struct {
	mu    sync.Mutex
	locks map[string]time.Time // key -> 到期時間
}

func NewLockCoordinator() *LockCoordinator {
	return &LockCoordinator{
		locks: make(map[string]time.Time),
	}
}

func (l *LockCoordinator) Acquire(ctx context.Context, key string, timeout time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiry, ok := l.locks[key]; ok && now.Before(expiry) {
		return false
	}
	l.locks[key] = now.Add(timeout)
	return true
}

func (l *LockCoordinator) Release(ctx context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
}

func (l *LockCoordinator) IsHeld(ctx context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.locks[key]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(l.locks, key)
		return false
	}
	return true
}

func (l *LockCoordinator) Extend(ctx context.Context, key string, timeout time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.locks[key]
	if !ok || time.Now().After(expiry) {
		return false
	}
	l.locks[key] = time.Now().Add(timeout)
	return true
}

func (l *LockCoordinator) ForceRelease(ctx context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.locks[key]; !ok {
		return false
	}
	delete(l.locks, key)
	return true
}

var _ usecase.LockCoordinator = (*LockCoordinator)(nil)
