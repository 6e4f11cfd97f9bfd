package usecase

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
)

// accountNumberLength 帳號固定為 10 碼數字
const accountNumberLength = 10

// AccountUseCase 帳戶管理流程：開戶、解約、查詢
// 解約與餘額異動共用同一套雙層鎖規範，避免解約與扣款交錯
type AccountUseCase struct {
	users    UserStore
	accounts AccountStore
	locks    LockCoordinator
	tx       TxRunner
	logger   *zap.Logger
}

func NewAccountUseCase(
	users UserStore,
	accounts AccountStore,
	locks LockCoordinator,
	tx TxRunner,
	logger *zap.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		users:    users,
		accounts: accounts,
		locks:    locks,
		tx:       tx,
		logger:   logger,
	}
}

// CreateAccountOutput 開戶結果
type CreateAccountOutput struct {
	UserID        string
	AccountNumber string
	CreatedAt     time.Time
}

// CloseAccountOutput 解約結果
type CloseAccountOutput struct {
	UserID        string
	AccountNumber string
	ClosedAt      time.Time
}

// CreateAccount 開戶
// 單一使用者最多持有 10 個帳戶，帳號為隨機產生的不重複 10 碼數字
func (u *AccountUseCase) CreateAccount(ctx context.Context, userID string, initialBalance int64) (*CreateAccountOutput, error) {
	var out *CreateAccountOutput
	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := u.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NewAccountError(domain.ErrCodeUserNotFound)
		}

		count, err := u.accounts.CountByUser(ctx, user.UserID)
		if err != nil {
			return err
		}
		if count >= domain.MaxAccountsPerUser {
			return domain.NewAccountError(domain.ErrCodeAccountLimitExceeded)
		}

		accountNumber, err := u.generateUniqueAccountNumber(ctx)
		if err != nil {
			return err
		}

		account := &domain.Account{
			AccountNumber: accountNumber,
			UserID:        user.UserID,
			Balance:       initialBalance,
			Status:        domain.AccountStatusActive,
			CreatedAt:     time.Now(),
		}
		if err := u.accounts.Save(ctx, account); err != nil {
			return err
		}

		out = &CreateAccountOutput{
			UserID:        user.UserID,
			AccountNumber: account.AccountNumber,
			CreatedAt:     account.CreatedAt,
		}
		return nil
	})
	if err != nil {
		u.logger.Error("failed to create account",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, err
	}
	return out, nil
}

// CloseAccount 解約
// 與扣款相同的鎖規範：帳戶互斥鎖 + 儲存層排他鎖
// 只有餘額為 0 的使用中帳戶可以解約，CLOSED 為單向狀態
func (u *AccountUseCase) CloseAccount(ctx context.Context, userID, accountNumber string) (*CloseAccountOutput, error) {
	if !u.locks.Acquire(ctx, accountNumber, accountLockTimeout) {
		return nil, domain.NewAccountError(domain.ErrCodeLockContended)
	}
	defer u.locks.Release(ctx, accountNumber)

	var out *CloseAccountOutput
	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := u.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NewAccountError(domain.ErrCodeUserNotFound)
		}

		account, err := u.accounts.FindByNumberForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.NewAccountError(domain.ErrCodeAccountNotFound)
		}

		if account.UserID != user.UserID {
			return domain.NewAccountError(domain.ErrCodeOwnerMismatch)
		}
		if account.Status == domain.AccountStatusClosed {
			return domain.NewAccountError(domain.ErrCodeAccountInactive)
		}
		if account.Balance > 0 {
			return domain.NewAccountError(domain.ErrCodeAccountHasBalance)
		}

		now := time.Now()
		account.Status = domain.AccountStatusClosed
		account.ClosedAt = &now
		if err := u.accounts.Save(ctx, account); err != nil {
			return err
		}

		out = &CloseAccountOutput{
			UserID:        user.UserID,
			AccountNumber: account.AccountNumber,
			ClosedAt:      now,
		}
		return nil
	})
	if err != nil {
		u.logger.Error("failed to close account",
			zap.String("account_number", accountNumber),
			zap.Error(err))
		return nil, err
	}
	return out, nil
}

// ListAccounts 查詢使用者所有使用中的帳戶
func (u *AccountUseCase) ListAccounts(ctx context.Context, userID string) ([]*domain.Account, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewAccountError(domain.ErrCodeUserNotFound)
	}
	return u.accounts.ListActiveByUser(ctx, user.UserID)
}

// generateUniqueAccountNumber 產生不重複的 10 碼數字帳號
func (u *AccountUseCase) generateUniqueAccountNumber(ctx context.Context) (string, error) {
	for {
		var sb strings.Builder
		for i := 0; i < accountNumberLength; i++ {
			sb.WriteByte(byte('0' + rand.IntN(10)))
		}
		accountNumber := sb.String()

		exists, err := u.accounts.ExistsByNumber(ctx, accountNumber)
		if err != nil {
			return "", err
		}
		if !exists {
			return accountNumber, nil
		}
	}
}
