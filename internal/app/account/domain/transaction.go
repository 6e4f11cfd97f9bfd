package domain

import "time"

// 交易金額限制與帳戶數上限
const (
	// MinTransactionAmount 單筆交易最小金額
	MinTransactionAmount int64 = 10
	// MaxTransactionAmount 單筆交易最大金額
	MaxTransactionAmount int64 = 1_000_000_000
	// MaxAccountsPerUser 單一使用者可持有的帳戶數上限
	MaxAccountsPerUser = 10
)

// TransactionType 交易類型
type TransactionType string

const (
	// 扣款
	TransactionTypeDebit TransactionType = "DEBIT"
	// 沖正：完整取消一筆扣款
	TransactionTypeReversal TransactionType = "REVERSAL"
)

// TransactionResult 交易結果
// 只有成功的交易才會落帳，失敗的請求不會進入帳本
type TransactionResult string

const (
	TransactionResultSuccess TransactionResult = "SUCCESS"
)

// Transaction 交易紀錄
// 帳本為 Append-Only：建立後不得更新或刪除
type Transaction struct {
	// TransactionID 由帳本遞增分配，建立後不可變
	TransactionID int64
	// AccountNumber 交易所屬帳號
	AccountNumber string
	Type          TransactionType
	Result        TransactionResult
	Amount        int64
	// BalanceSnapshot 落帳當下的餘額快照
	// 注意：DEBIT 記錄扣款「前」的餘額，REVERSAL 記錄回補「後」的餘額
	BalanceSnapshot int64
	TransactedAt    time.Time
}
