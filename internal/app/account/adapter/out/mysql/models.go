package mysql

import (
	"time"

	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
)

// sqlUser 對應資料庫的 account_user 表
type sqlUser struct {
	UserID    string    `gorm:"primaryKey;size:64;column:user_id"`
	Name      string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (*sqlUser) TableName() string {
	return "account_user"
}

// sqlAccount 對應資料庫的 account 表
type sqlAccount struct {
	AccountNumber string     `gorm:"primaryKey;size:10;column:account_number"`
	UserID        string     `gorm:"index;size:64;column:user_id"`
	Balance       int64      `gorm:"not null"`
	AccountStatus string     `gorm:"size:16;column:account_status"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	ClosedAt      *time.Time `gorm:"column:closed_at"`
}

func (*sqlAccount) TableName() string {
	return "account"
}

// sqlTransaction 對應資料庫的 transaction 表
// Append-Only：只寫入，永不更新或刪除
type sqlTransaction struct {
	TransactionID     int64     `gorm:"primaryKey;autoIncrement;column:transaction_id"`
	AccountNumber     string    `gorm:"index;size:10;column:account_number"`
	TransactionType   string    `gorm:"size:16;column:transaction_type"`
	TransactionResult string    `gorm:"size:16;column:transaction_result"`
	Amount            int64     `gorm:"not null"`
	BalanceSnapshot   int64     `gorm:"not null;column:balance_snapshot"`
	TransactedAt      time.Time `gorm:"column:transacted_at"`
}

func (*sqlTransaction) TableName() string {
	return "transaction"
}

func toDomainUser(u *sqlUser) *domain.User {
	return &domain.User{
		UserID:    u.UserID,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func toSQLUser(u *domain.User) *sqlUser {
	return &sqlUser{
		UserID:    u.UserID,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func toDomainAccount(a *sqlAccount) *domain.Account {
	return &domain.Account{
		AccountNumber: a.AccountNumber,
		UserID:        a.UserID,
		Balance:       a.Balance,
		Status:        domain.AccountStatus(a.AccountStatus),
		CreatedAt:     a.CreatedAt,
		ClosedAt:      a.ClosedAt,
	}
}

func toSQLAccount(a *domain.Account) *sqlAccount {
	return &sqlAccount{
		AccountNumber: a.AccountNumber,
		UserID:        a.UserID,
		Balance:       a.Balance,
		AccountStatus: string(a.Status),
		CreatedAt:     a.CreatedAt,
		ClosedAt:      a.ClosedAt,
	}
}

func toDomainTransaction(t *sqlTransaction) *domain.Transaction {
	return &domain.Transaction{
		TransactionID:   t.TransactionID,
		AccountNumber:   t.AccountNumber,
		Type:            domain.TransactionType(t.TransactionType),
		Result:          domain.TransactionResult(t.TransactionResult),
		Amount:          t.Amount,
		BalanceSnapshot: t.BalanceSnapshot,
		TransactedAt:    t.TransactedAt,
	}
}
