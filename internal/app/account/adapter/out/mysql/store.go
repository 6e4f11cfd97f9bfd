package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
	"github.com/JoeShih716/go-account-system/internal/app/account/usecase"
	"github.com/JoeShih716/go-account-system/pkg/mysql"
)

// AutoMigrate 建立或更新資料表結構
func AutoMigrate(client *mysql.Client) error {
	return client.DB().AutoMigrate(&sqlUser{}, &sqlAccount{}, &sqlTransaction{})
}

// UserStore 以 MySQL 實作使用者儲存
type UserStore struct {
	client *mysql.Client
}

func NewUserStore(client *mysql.Client) *UserStore {
	return &UserStore{client: client}
}

func (s *UserStore) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	var user sqlUser
	err := s.client.Session(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toDomainUser(&user), nil
}

func (s *UserStore) Save(ctx context.Context, user *domain.User) error {
	if err := s.client.Session(ctx).Save(toSQLUser(user)).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.client.Session(ctx).Model(&sqlUser{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// AccountStore 以 MySQL 實作帳戶儲存
// 悲觀鎖透過 SELECT ... FOR UPDATE 實現，只在 RunInTx 範圍內有效
type AccountStore struct {
	client *mysql.Client
}

func NewAccountStore(client *mysql.Client) *AccountStore {
	return &AccountStore{client: client}
}

func (s *AccountStore) FindByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	var account sqlAccount
	err := s.client.Session(ctx).Where("account_number = ?", accountNumber).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return toDomainAccount(&account), nil
}

// FindByNumberForUpdate 以排他列鎖載入帳戶
// 同一列的其他 FOR UPDATE 讀取會被阻塞直到本交易結束
func (s *AccountStore) FindByNumberForUpdate(ctx context.Context, accountNumber string) (*domain.Account, error) {
	var account sqlAccount
	err := s.client.Session(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_number = ?", accountNumber).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account for update: %w", err)
	}
	return toDomainAccount(&account), nil
}

func (s *AccountStore) Save(ctx context.Context, account *domain.Account) error {
	if err := s.client.Session(ctx).Save(toSQLAccount(account)).Error; err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (s *AccountStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.client.Session(ctx).
		Model(&sqlAccount{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func (s *AccountStore) ListActiveByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	var rows []sqlAccount
	err := s.client.Session(ctx).
		Where("user_id = ? AND account_status = ?", userID, string(domain.AccountStatusActive)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	accounts := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, toDomainAccount(&rows[i]))
	}
	return accounts, nil
}

func (s *AccountStore) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	var count int64
	err := s.client.Session(ctx).
		Model(&sqlAccount{}).
		Where("account_number = ?", accountNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check account number: %w", err)
	}
	return count > 0, nil
}

// LedgerStore 以 MySQL 實作交易帳本
// Append-Only：只有 Create，永不 Update / Delete
type LedgerStore struct {
	client *mysql.Client
}

func NewLedgerStore(client *mysql.Client) *LedgerStore {
	return &LedgerStore{client: client}
}

// Append 落帳並回傳帶有遞增 TransactionID 的紀錄
func (s *LedgerStore) Append(ctx context.Context, tran *domain.Transaction) (*domain.Transaction, error) {
	row := &sqlTransaction{
		AccountNumber:     tran.AccountNumber,
		TransactionType:   string(tran.Type),
		TransactionResult: string(tran.Result),
		Amount:            tran.Amount,
		BalanceSnapshot:   tran.BalanceSnapshot,
		TransactedAt:      tran.TransactedAt,
	}
	if err := s.client.Session(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}
	return toDomainTransaction(row), nil
}

func (s *LedgerStore) FindByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	var row sqlTransaction
	err := s.client.Session(ctx).Where("transaction_id = ?", transactionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return toDomainTransaction(&row), nil
}

var (
	_ usecase.UserStore         = (*UserStore)(nil)
	_ usecase.AccountStore      = (*AccountStore)(nil)
	_ usecase.TransactionLedger = (*LedgerStore)(nil)
	_ usecase.TxRunner          = (*mysql.Client)(nil)
)
