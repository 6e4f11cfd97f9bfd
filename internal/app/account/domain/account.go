package domain

import "time"

// AccountStatus 帳戶生命週期狀態
type AccountStatus string

const (
	// 使用中
	AccountStatusActive AccountStatus = "ACTIVE"
	// 已解約，單向轉移：一旦 CLOSED 不可回到 ACTIVE
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Account 帳戶
// Balance 一律以最小貨幣單位的 int64 表示，且不可為負
// Balance 只能在持有該帳戶的儲存層排他鎖時修改
type Account struct {
	// AccountNumber 帳號（10 碼數字字串，建立後不可變）
	AccountNumber string
	// UserID 擁有者
	UserID  string
	Balance int64
	Status  AccountStatus
	// CreatedAt 開戶時間
	CreatedAt time.Time
	// ClosedAt 解約時間，僅在 Status == CLOSED 時有值
	ClosedAt *time.Time
}

// User 使用者
type User struct {
	UserID    string
	Name      string
	CreatedAt time.Time
}
