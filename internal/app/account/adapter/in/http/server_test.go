package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpadapter "github.com/JoeShih716/go-account-system/internal/app/account/adapter/in/http"
	"github.com/JoeShih716/go-account-system/internal/app/account/adapter/out/memory"
	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
	"github.com/JoeShih716/go-account-system/internal/app/account/usecase"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := memory.NewStore(nil)
	require.NoError(t, err)
	locks := memory.NewLockCoordinator()
	logger := zap.NewNop()
	ctx := context.Background()

	require.NoError(t, store.Users().Save(ctx, &domain.User{
		UserID:    "user1",
		Name:      "test user",
		CreatedAt: time.Now(),
	}))
	require.NoError(t, store.Accounts().Save(ctx, &domain.Account{
		AccountNumber: "1000000001",
		UserID:        "user1",
		Balance:       10000,
		Status:        domain.AccountStatusActive,
		CreatedAt:     time.Now(),
	}))

	transactions := usecase.NewTransactionUseCase(
		store.Users(), store.Accounts(), store.Ledger(), locks, store, nil, logger)
	accounts := usecase.NewAccountUseCase(
		store.Users(), store.Accounts(), locks, store, logger)

	return httpadapter.NewServer(transactions, accounts).App()
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*nethttp.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestHandleDebit(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/transaction/debit", fiber.Map{
		"userId":        "user1",
		"accountNumber": "1000000001",
		"amount":        1000,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "1000000001", body["accountNumber"])
	assert.Equal(t, "SUCCESS", body["transactionResult"])
	assert.Equal(t, float64(1), body["transactionId"])
	assert.Equal(t, float64(1000), body["amount"])
}

// 業務錯誤一律 400 + errorCode / errorMessage
func TestHandleDebit_BusinessError(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/transaction/debit", fiber.Map{
		"userId":        "user1",
		"accountNumber": "1000000001",
		"amount":        20000,
	})
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "INSUFFICIENT_BALANCE", body["errorCode"])
	assert.NotEmpty(t, body["errorMessage"])
}

func TestHandleDebit_InvalidRequest(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"missing user", fiber.Map{"accountNumber": "1000000001", "amount": 1000}},
		{"missing account", fiber.Map{"userId": "user1", "amount": 1000}},
		{"zero amount", fiber.Map{"userId": "user1", "accountNumber": "1000000001", "amount": 0}},
		{"negative amount", fiber.Map{"userId": "user1", "accountNumber": "1000000001", "amount": -100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/transaction/debit", tc.body)
			require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "INVALID_REQUEST", body["errorCode"])
		})
	}
}

func TestHandleCancel(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/api/transaction/debit", fiber.Map{
		"userId":        "user1",
		"accountNumber": "1000000001",
		"amount":        1000,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/transaction/cancel", fiber.Map{
		"transactionId": 1,
		"accountNumber": "1000000001",
		"amount":        1000,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(2), body["transactionId"])

	// REVERSAL 紀錄本身不可再被沖正
	resp, raw = doJSON(t, app, nethttp.MethodPost, "/api/transaction/cancel", fiber.Map{
		"transactionId": 2,
		"accountNumber": "1000000001",
		"amount":        1000,
	})
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "ALREADY_REVERSED", body["errorCode"])
}

func TestHandleGetTransaction(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/api/transaction/debit", fiber.Map{
		"userId":        "user1",
		"accountNumber": "1000000001",
		"amount":        1000,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, raw := doJSON(t, app, nethttp.MethodGet, "/api/transaction/1", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "DEBIT", body["transactionType"])
	assert.Equal(t, "SUCCESS", body["transactionResult"])

	resp, raw = doJSON(t, app, nethttp.MethodGet, "/api/transaction/42", nil)
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "TRANSACTION_NOT_FOUND", body["errorCode"])

	resp, raw = doJSON(t, app, nethttp.MethodGet, "/api/transaction/abc", nil)
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "INVALID_REQUEST", body["errorCode"])
}

func TestHandleCreateAndGetAccounts(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, nethttp.MethodPost, "/api/account/", fiber.Map{
		"userId":         "user1",
		"initialBalance": 5000,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))

	var created map[string]any
	require.NoError(t, json.Unmarshal(raw, &created))
	accountNumber, ok := created["accountNumber"].(string)
	require.True(t, ok)
	require.Len(t, accountNumber, 10)

	resp, raw = doJSON(t, app, nethttp.MethodGet, "/api/account/user1", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))

	var listed map[string]any
	require.NoError(t, json.Unmarshal(raw, &listed))
	assert.Equal(t, "user1", listed["userId"])
	accounts, ok := listed["accounts"].([]any)
	require.True(t, ok)
	assert.Len(t, accounts, 2) // 既有帳戶 + 新開帳戶
}

func TestHandleCloseAccount(t *testing.T) {
	app := newTestApp(t)

	// 餘額不為 0 不可解約
	resp, raw := doJSON(t, app, nethttp.MethodDelete, "/api/account/", fiber.Map{
		"userId":        "user1",
		"accountNumber": "1000000001",
	})
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "ACCOUNT_HAS_BALANCE", body["errorCode"])

	// 清空餘額後可以解約
	resp, _ = doJSON(t, app, nethttp.MethodPost, "/api/transaction/debit", fiber.Map{
		"userId":        "user1",
		"accountNumber": "1000000001",
		"amount":        10000,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, app, nethttp.MethodDelete, "/api/account/", fiber.Map{
		"userId":        "user1",
		"accountNumber": "1000000001",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "1000000001", body["accountNumber"])
	assert.NotEmpty(t, body["closedAt"])
}
