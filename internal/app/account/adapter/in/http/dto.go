package http

import "time"

// DebitRequest 扣款請求
type DebitRequest struct {
	UserID        string `json:"userId"`
	AccountNumber string `json:"accountNumber"`
	Amount        int64  `json:"amount"`
}

// CancelRequest 沖正請求
type CancelRequest struct {
	TransactionID int64  `json:"transactionId"`
	AccountNumber string `json:"accountNumber"`
	Amount        int64  `json:"amount"`
}

// TransactionResponse 扣款 / 沖正的共同回應
type TransactionResponse struct {
	AccountNumber     string    `json:"accountNumber"`
	TransactionResult string    `json:"transactionResult"`
	TransactionID     int64     `json:"transactionId"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transactedAt"`
}

// GetTransactionResponse 交易查詢回應
type GetTransactionResponse struct {
	AccountNumber     string    `json:"accountNumber"`
	TransactionType   string    `json:"transactionType"`
	TransactionResult string    `json:"transactionResult"`
	TransactionID     int64     `json:"transactionId"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transactedAt"`
}

// CreateAccountRequest 開戶請求
type CreateAccountRequest struct {
	UserID         string `json:"userId"`
	InitialBalance int64  `json:"initialBalance"`
}

// CreateAccountResponse 開戶回應
type CreateAccountResponse struct {
	UserID        string    `json:"userId"`
	AccountNumber string    `json:"accountNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CloseAccountRequest 解約請求
type CloseAccountRequest struct {
	UserID        string `json:"userId"`
	AccountNumber string `json:"accountNumber"`
}

// CloseAccountResponse 解約回應
type CloseAccountResponse struct {
	UserID        string    `json:"userId"`
	AccountNumber string    `json:"accountNumber"`
	ClosedAt      time.Time `json:"closedAt"`
}

// AccountSummary 帳戶列表中的單一帳戶
type AccountSummary struct {
	AccountNumber string `json:"accountNumber"`
	Balance       int64  `json:"balance"`
}

// GetAccountsResponse 帳戶列表回應
type GetAccountsResponse struct {
	UserID   string           `json:"userId"`
	Accounts []AccountSummary `json:"accounts"`
}

// ErrorResponse 業務錯誤回應：代碼 + 人類可讀描述
type ErrorResponse struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}
