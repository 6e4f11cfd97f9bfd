package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
)

const (
	// accountLockTimeout 帳戶互斥鎖的有效期限
	// 固定值：鎖在此期限後自然過期，避免崩潰的持有者永久卡死帳戶
	accountLockTimeout = 3000 * time.Millisecond

	// transactionTopic 交易完成事件的發布主題
	transactionTopic = "transaction_completed"
)

// TransactionUseCase 餘額異動的核心流程
//
// 每筆請求依序經過：取得帳戶互斥鎖 → 在儲存層交易內以排他鎖載入帳戶 →
// 驗證 → 異動餘額 → 落帳 → 釋放鎖。取鎖成功後的所有出口（成功、業務錯誤、
// 非預期錯誤）都必須釋放鎖，這是整個核心最重要的失敗處理契約。
type TransactionUseCase struct {
	users    UserStore
	accounts AccountStore
	ledger   TransactionLedger
	locks    LockCoordinator
	tx       TxRunner
	events   EventPublisher // 可為 nil，發布為 best-effort
	logger   *zap.Logger
}

func NewTransactionUseCase(
	users UserStore,
	accounts AccountStore,
	ledger TransactionLedger,
	locks LockCoordinator,
	tx TxRunner,
	events EventPublisher,
	logger *zap.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		users:    users,
		accounts: accounts,
		ledger:   ledger,
		locks:    locks,
		tx:       tx,
		events:   events,
		logger:   logger,
	}
}

// TransactionOutput 交易操作的回傳內容
type TransactionOutput struct {
	AccountNumber string
	Type          domain.TransactionType
	Result        domain.TransactionResult
	TransactionID int64
	Amount        int64
	TransactedAt  time.Time
}

// Debit 扣款
//
// 驗證順序是對外可觀察的契約：使用者檢查先於帳戶載入，
// 帳戶狀態與金額驗證先於餘額檢查，全部通過後才會落帳與扣款。
// 快照規則：DEBIT 紀錄的 BalanceSnapshot 是「扣款前」的餘額。
func (u *TransactionUseCase) Debit(ctx context.Context, userID, accountNumber string, amount int64) (*TransactionOutput, error) {
	if !u.locks.Acquire(ctx, accountNumber, accountLockTimeout) {
		return nil, domain.NewAccountError(domain.ErrCodeLockContended)
	}
	// 從這裡開始，所有出口都必須釋放鎖
	defer u.locks.Release(ctx, accountNumber)

	var out *TransactionOutput
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
		if account.Status != domain.AccountStatusActive {
			return domain.NewAccountError(domain.ErrCodeAccountInactive)
		}
		if err := validateTransactionAmount(amount); err != nil {
			return err
		}
		if account.Balance < amount {
			return domain.NewAccountError(domain.ErrCodeInsufficientBalance)
		}

		// 先落帳再扣款：快照必須是扣款前的餘額
		tran, err := u.ledger.Append(ctx, &domain.Transaction{
			AccountNumber:   account.AccountNumber,
			Type:            domain.TransactionTypeDebit,
			Result:          domain.TransactionResultSuccess,
			Amount:          amount,
			BalanceSnapshot: account.Balance,
			TransactedAt:    time.Now(),
		})
		if err != nil {
			return err
		}

		account.Balance -= amount
		if err := u.accounts.Save(ctx, account); err != nil {
			return err
		}

		out = &TransactionOutput{
			AccountNumber: account.AccountNumber,
			Type:          tran.Type,
			Result:        tran.Result,
			TransactionID: tran.TransactionID,
			Amount:        tran.Amount,
			TransactedAt:  tran.TransactedAt,
		}
		return nil
	})
	if err != nil {
		u.logger.Error("failed to debit balance",
			zap.String("account_number", accountNumber),
			zap.Error(err))
		return nil, err
	}

	u.publish(out)
	return out, nil
}

// Cancel 沖正：完整取消一筆既有的扣款
//
// 不允許部分取消，金額必須與原交易完全一致；REVERSAL 本身不可再被沖正。
// 快照規則與扣款相反：REVERSAL 紀錄的 BalanceSnapshot 是「回補後」的餘額。
func (u *TransactionUseCase) Cancel(ctx context.Context, transactionID int64, accountNumber string, amount int64) (*TransactionOutput, error) {
	if !u.locks.Acquire(ctx, accountNumber, accountLockTimeout) {
		return nil, domain.NewAccountError(domain.ErrCodeLockContended)
	}
	defer u.locks.Release(ctx, accountNumber)

	var out *TransactionOutput
	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		original, err := u.ledger.FindByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.NewAccountError(domain.ErrCodeTransactionNotFound)
		}

		account, err := u.accounts.FindByNumberForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.NewAccountError(domain.ErrCodeAccountNotFound)
		}

		if original.AccountNumber != account.AccountNumber {
			return domain.NewAccountError(domain.ErrCodeTransactionAccountMismatch)
		}
		if original.Amount != amount {
			return domain.NewAccountError(domain.ErrCodePartialCancelNotAllowed)
		}
		if original.Type != domain.TransactionTypeDebit {
			return domain.NewAccountError(domain.ErrCodeAlreadyReversed)
		}

		// 先回補並寫回，再落帳：快照是回補後的餘額
		account.Balance += original.Amount
		if err := u.accounts.Save(ctx, account); err != nil {
			return err
		}

		tran, err := u.ledger.Append(ctx, &domain.Transaction{
			AccountNumber:   account.AccountNumber,
			Type:            domain.TransactionTypeReversal,
			Result:          domain.TransactionResultSuccess,
			Amount:          original.Amount,
			BalanceSnapshot: account.Balance,
			TransactedAt:    time.Now(),
		})
		if err != nil {
			return err
		}

		out = &TransactionOutput{
			AccountNumber: account.AccountNumber,
			Type:          tran.Type,
			Result:        tran.Result,
			TransactionID: tran.TransactionID,
			Amount:        tran.Amount,
			TransactedAt:  tran.TransactedAt,
		}
		return nil
	})
	if err != nil {
		u.logger.Error("failed to cancel balance",
			zap.String("account_number", accountNumber),
			zap.Int64("transaction_id", transactionID),
			zap.Error(err))
		return nil, err
	}

	u.publish(out)
	return out, nil
}

// GetTransaction 查詢單筆交易，不需要任何鎖
func (u *TransactionUseCase) GetTransaction(ctx context.Context, transactionID int64) (*TransactionOutput, error) {
	tran, err := u.ledger.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tran == nil {
		return nil, domain.NewAccountError(domain.ErrCodeTransactionNotFound)
	}
	return &TransactionOutput{
		AccountNumber: tran.AccountNumber,
		Type:          tran.Type,
		Result:        tran.Result,
		TransactionID: tran.TransactionID,
		Amount:        tran.Amount,
		TransactedAt:  tran.TransactedAt,
	}, nil
}

// publish 發布交易完成事件，失敗只記 log 不影響交易結果
func (u *TransactionUseCase) publish(out *TransactionOutput) {
	if u.events == nil {
		return
	}
	event := TransactionEvent{
		TransactionID: out.TransactionID,
		AccountNumber: out.AccountNumber,
		Type:          out.Type,
		Amount:        out.Amount,
		TransactedAt:  out.TransactedAt,
	}
	if err := u.events.Publish(transactionTopic, event); err != nil {
		u.logger.Warn("failed to publish transaction event",
			zap.Int64("transaction_id", out.TransactionID),
			zap.Error(err))
	}
}

func validateTransactionAmount(amount int64) error {
	if amount < domain.MinTransactionAmount {
		return domain.NewAccountError(domain.ErrCodeAmountTooSmall)
	}
	if amount > domain.MaxTransactionAmount {
		return domain.NewAccountError(domain.ErrCodeAmountTooLarge)
	}
	return nil
}
