package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
	"github.com/JoeShih716/go-account-system/internal/app/account/usecase"
)

// Server 對外的 HTTP API (Driving Adapter)
type Server struct {
	app          *fiber.App
	transactions *usecase.TransactionUseCase
	accounts     *usecase.AccountUseCase
}

func NewServer(transactions *usecase.TransactionUseCase, accounts *usecase.AccountUseCase) *Server {
	s := &Server{
		app:          fiber.New(),
		transactions: transactions,
		accounts:     accounts,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	transaction := api.Group("/transaction")
	transaction.Post("/debit", s.handleDebit)
	transaction.Post("/cancel", s.handleCancel)
	transaction.Get("/:transactionId", s.handleGetTransaction)

	account := api.Group("/account")
	account.Post("/", s.handleCreateAccount)
	account.Delete("/", s.handleCloseAccount)
	account.Get("/:userId", s.handleGetAccounts)
}

// App 回傳底層 fiber 實例（測試用）
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen 啟動 HTTP 服務
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown 優雅關閉
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// writeError 將錯誤轉成 HTTP 回應
// 業務錯誤一律 400 + 代碼與描述，其餘視為 500
func writeError(c *fiber.Ctx, err error) error {
	if code, ok := domain.CodeOf(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			ErrorCode:    string(code),
			ErrorMessage: code.Description(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		ErrorCode:    "INTERNAL_ERROR",
		ErrorMessage: "internal server error",
	})
}
