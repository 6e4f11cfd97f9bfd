package usecase

import (
	"context"
	"time"

	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
)

// LockCoordinator 跨程序的帳戶級互斥鎖
// 以具備 set-if-absent-with-expiry / delete 的共享 KV 儲存為後端
// 所有傳輸層錯誤一律在實作內吞掉：記 log 後回傳 false，不會向上拋出
type LockCoordinator interface {
	// Acquire 嘗試取得帶有效期限的鎖，競爭失敗或傳輸失敗都回傳 false
	Acquire(ctx context.Context, key string, timeout time.Duration) bool
	// Release 無條件釋放鎖，傳輸失敗時靜默（鎖最終會因逾時自然過期）
	Release(ctx context.Context, key string)
	// IsHeld 查詢鎖是否仍被持有
	IsHeld(ctx context.Context, key string) bool
	// Extend 延長既有鎖的有效期限
	Extend(ctx context.Context, key string, timeout time.Duration) bool
	// ForceRelease 強制釋放並回報是否真的刪除了鎖
	ForceRelease(ctx context.Context, key string) bool
}

// TxRunner 儲存層交易範圍
// fn 內透過 ctx 取得綁定交易的儲存操作，fn 回傳錯誤時整筆回滾
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserStore 使用者查詢
type UserStore interface {
	// FindByID 查無資料時回傳 (nil, nil)
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int64, error)
}

// AccountStore 帳戶儲存
type AccountStore interface {
	// FindByNumber 查無資料時回傳 (nil, nil)
	FindByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// FindByNumberForUpdate 以儲存層排他鎖載入帳戶（悲觀鎖）
	// 只能在 TxRunner.RunInTx 範圍內呼叫，鎖持續到交易結束
	FindByNumberForUpdate(ctx context.Context, accountNumber string) (*domain.Account, error)
	Save(ctx context.Context, account *domain.Account) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*domain.Account, error)
	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)
}

// TransactionLedger 交易帳本（Append-Only）
type TransactionLedger interface {
	// Append 落帳並分配遞增的 TransactionID，是紀錄唯一的寫入點
	Append(ctx context.Context, tran *domain.Transaction) (*domain.Transaction, error)
	// FindByID 查無資料時回傳 (nil, nil)
	FindByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)
}

// EventPublisher 交易完成事件發布
type EventPublisher interface {
	Publish(topic string, event any) error
}

// TransactionEvent 成功交易後發布的事件
type TransactionEvent struct {
	TransactionID int64                  `json:"transaction_id"`
	AccountNumber string                 `json:"account_number"`
	Type          domain.TransactionType `json:"type"`
	Amount        int64                  `json:"amount"`
	TransactedAt  time.Time              `json:"transacted_at"`
}
