package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
	"github.com/JoeShih716/go-account-system/internal/app/account/usecase"
	"github.com/JoeShih716/go-account-system/pkg/wal"
)

// Store 是全記憶體的儲存後端，供開發模式與單元測試使用
//
// 單一 Mutex 就是這個後端的「儲存層排他鎖」：RunInTx 取得 Mutex 後，
// 其他交易對任何帳戶的讀寫都會被阻塞到本交易結束，
// 對應 MySQL 後端的 SELECT ... FOR UPDATE 列鎖
//
// 傳入 WAL 時，每筆落帳都會寫入 WAL，重啟時重放還原帳本
type Store struct {
	mu sync.Mutex

	users             map[string]*domain.User
	accounts          map[string]*domain.Account
	transactions      map[int64]*domain.Transaction
	nextTransactionID int64

	wal *wal.WAL
}

// NewStore 建立記憶體儲存，wal 可為 nil
func NewStore(w *wal.WAL) (*Store, error) {
	s := &Store{
		users:             make(map[string]*domain.User),
		accounts:          make(map[string]*domain.Account),
		transactions:      make(map[int64]*domain.Transaction),
		nextTransactionID: 1,
		wal:               w,
	}
	if w != nil {
		if err := s.recoverFromWAL(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// recoverFromWAL 重放 WAL 還原帳本
// 只有 NewStore 呼叫，單執行緒，無需加鎖
func (s *Store) recoverFromWAL() error {
	return s.wal.ReadAll(func(jsonRaw []byte) error {
		var tran domain.Transaction
		if err := json.Unmarshal(jsonRaw, &tran); err != nil {
			return err
		}
		s.transactions[tran.TransactionID] = &tran
		if tran.TransactionID >= s.nextTransactionID {
			s.nextTransactionID = tran.TransactionID + 1
		}
		return nil
	})
}

// txMarker 標記 ctx 已在交易範圍內，避免重複加鎖
type txMarker struct{}

// RunInTx 取得全域 Mutex 後執行 fn，即為本後端的儲存層排他範圍
// 注意：與資料庫後端不同，fn 失敗時不具回滾能力；
// 核心流程保證所有驗證先於任何異動，因此這裡不需要回滾
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, txMarker{}, true))
}

// lock 在交易範圍外使用時才真的加鎖
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txMarker{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Users 回傳使用者儲存 Port
func (s *Store) Users() usecase.UserStore { return userStore{s} }

// Accounts 回傳帳戶儲存 Port
func (s *Store) Accounts() usecase.AccountStore { return accountStore{s} }

// Ledger 回傳交易帳本 Port
func (s *Store) Ledger() usecase.TransactionLedger { return ledgerStore{s} }

type userStore struct{ s *Store }

func (v userStore) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	defer v.s.lock(ctx)()
	user, ok := v.s.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (v userStore) Save(ctx context.Context, user *domain.User) error {
	defer v.s.lock(ctx)()
	copied := *user
	v.s.users[user.UserID] = &copied
	return nil
}

func (v userStore) Count(ctx context.Context) (int64, error) {
	defer v.s.lock(ctx)()
	return int64(len(v.s.users)), nil
}

type accountStore struct{ s *Store }

func (v accountStore) FindByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	defer v.s.lock(ctx)()
	return v.s.findAccount(accountNumber), nil
}

// FindByNumberForUpdate 與 FindByNumber 相同：
// 排他性由 RunInTx 持有的全域 Mutex 提供
func (v accountStore) FindByNumberForUpdate(ctx context.Context, accountNumber string) (*domain.Account, error) {
	defer v.s.lock(ctx)()
	return v.s.findAccount(accountNumber), nil
}

func (s *Store) findAccount(accountNumber string) *domain.Account {
	account, ok := s.accounts[accountNumber]
	if !ok {
		return nil
	}
	copied := *account
	return &copied
}

func (v accountStore) Save(ctx context.Context, account *domain.Account) error {
	defer v.s.lock(ctx)()
	copied := *account
	v.s.accounts[account.AccountNumber] = &copied
	return nil
}

func (v accountStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	defer v.s.lock(ctx)()
	var count int64
	for _, account := range v.s.accounts {
		if account.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (v accountStore) ListActiveByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	defer v.s.lock(ctx)()
	accounts := make([]*domain.Account, 0)
	for _, account := range v.s.accounts {
		if account.UserID == userID && account.Status == domain.AccountStatusActive {
			copied := *account
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (v accountStore) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	defer v.s.lock(ctx)()
	_, ok := v.s.accounts[accountNumber]
	return ok, nil
}

type ledgerStore struct{ s *Store }

// Append 分配遞增的 TransactionID 並落帳，必要時寫入 WAL
func (v ledgerStore) Append(ctx context.Context, tran *domain.Transaction) (*domain.Transaction, error) {
	defer v.s.lock(ctx)()

	copied := *tran
	copied.TransactionID = v.s.nextTransactionID
	v.s.nextTransactionID++

	if v.s.wal != nil {
		if err := v.s.wal.Write(&copied); err != nil {
			return nil, err
		}
	}

	v.s.transactions[copied.TransactionID] = &copied
	result := copied
	return &result, nil
}

func (v ledgerStore) FindByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	defer v.s.lock(ctx)()
	tran, ok := v.s.transactions[transactionID]
	if !ok {
		return nil, nil
	}
	copied := *tran
	return &copied, nil
}

var _ usecase.TxRunner = (*Store)(nil)
