package domain

import (
	"errors"
	"fmt"
)

// ErrorCode 業務錯誤代碼
// API 層直接回傳代碼與描述，呼叫端依代碼分流，不做字串比對
type ErrorCode string

const (
	ErrCodeUserNotFound               ErrorCode = "USER_NOT_FOUND"
	ErrCodeAccountNotFound            ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeOwnerMismatch              ErrorCode = "OWNER_MISMATCH"
	ErrCodeAccountInactive            ErrorCode = "ACCOUNT_INACTIVE"
	ErrCodeAmountTooSmall             ErrorCode = "AMOUNT_TOO_SMALL"
	ErrCodeAmountTooLarge             ErrorCode = "AMOUNT_TOO_LARGE"
	ErrCodeInsufficientBalance        ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeLockContended              ErrorCode = "LOCK_CONTENDED"
	ErrCodeTransactionNotFound        ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeTransactionAccountMismatch ErrorCode = "TRANSACTION_ACCOUNT_MISMATCH"
	ErrCodePartialCancelNotAllowed    ErrorCode = "PARTIAL_CANCEL_NOT_ALLOWED"
	ErrCodeAlreadyReversed            ErrorCode = "ALREADY_REVERSED"

	// 帳戶管理（與交易共用同一套錯誤代碼）
	ErrCodeAccountLimitExceeded ErrorCode = "ACCOUNT_LIMIT_EXCEEDED"
	ErrCodeAccountNumberExists  ErrorCode = "ACCOUNT_NUMBER_EXISTS"
	ErrCodeAccountHasBalance    ErrorCode = "ACCOUNT_HAS_BALANCE"
	ErrCodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
)

var errorDescriptions = map[ErrorCode]string{
	ErrCodeUserNotFound:               "user does not exist",
	ErrCodeAccountNotFound:            "account does not exist",
	ErrCodeOwnerMismatch:              "account owner does not match the user",
	ErrCodeAccountInactive:            "account is already closed",
	ErrCodeAmountTooSmall:             "transaction amount is too small",
	ErrCodeAmountTooLarge:             "transaction amount is too large",
	ErrCodeInsufficientBalance:        "transaction amount exceeds account balance",
	ErrCodeLockContended:              "account is locked by another transaction",
	ErrCodeTransactionNotFound:        "transaction does not exist",
	ErrCodeTransactionAccountMismatch: "transaction does not belong to this account",
	ErrCodePartialCancelNotAllowed:    "partial cancellation is not allowed",
	ErrCodeAlreadyReversed:            "transaction has already been reversed",
	ErrCodeAccountLimitExceeded:       "user already holds the maximum number of accounts",
	ErrCodeAccountNumberExists:        "account number already exists",
	ErrCodeAccountHasBalance:          "account with remaining balance cannot be closed",
	ErrCodeInvalidRequest:             "invalid request",
}

// Description 回傳代碼對應的人類可讀描述
func (c ErrorCode) Description() string {
	if desc, ok := errorDescriptions[c]; ok {
		return desc
	}
	return string(c)
}

// AccountError 帶代碼的業務錯誤
// 取代例外式控制流：每個呼叫端都能以 errors.As 明確取得代碼
type AccountError struct {
	Code ErrorCode
}

func NewAccountError(code ErrorCode) *AccountError {
	return &AccountError{Code: code}
}

func (e *AccountError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Code.Description())
}

// CodeOf 從錯誤鏈中取出業務錯誤代碼
func CodeOf(err error) (ErrorCode, bool) {
	var accErr *AccountError
	if errors.As(err, &accErr) {
		return accErr.Code, true
	}
	return "", false
}

// IsCode 判斷錯誤是否為指定的業務錯誤代碼
func IsCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
