package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	http_adapter "github.com/JoeShih716/go-account-system/internal/app/account/adapter/in/http"
	kafka_adapter "github.com/JoeShih716/go-account-system/internal/app/account/adapter/out/kafka"
	memory_adapter "github.com/JoeShih716/go-account-system/internal/app/account/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-account-system/internal/app/account/adapter/out/mysql"
	redis_adapter "github.com/JoeShih716/go-account-system/internal/app/account/adapter/out/redis"
	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
	"github.com/JoeShih716/go-account-system/internal/app/account/usecase"
	"github.com/JoeShih716/go-account-system/pkg/mysql"
	"github.com/JoeShih716/go-account-system/pkg/redis"
	"github.com/JoeShih716/go-account-system/pkg/wal"
)

// Config 服務整體配置
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	// Storage 儲存後端: "mysql" 或 "memory"
	// memory 模式同時改用行程內互斥鎖，適合單機開發
	Storage string `yaml:"storage"`
	// WALPath memory 模式的帳本 WAL 檔案路徑，留空表示不落地
	WALPath string `yaml:"wal_path"`

	MySQL mysql.Config `yaml:"mysql"`
	Redis redis.Config `yaml:"redis"`

	Kafka struct {
		Enabled bool     `yaml:"enabled"`
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`

	// Seed 使用者表為空時建立範例使用者
	Seed bool `yaml:"seed"`
}

func main() {
	// .env 不存在時忽略，容器環境直接吃系統環境變數
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := loadConfig(logger)
	ctx := context.Background()

	var (
		users    usecase.UserStore
		accounts usecase.AccountStore
		ledger   usecase.TransactionLedger
		txRunner usecase.TxRunner
		locks    usecase.LockCoordinator
		cleanup  []func()
	)

	switch cfg.Storage {
	case "memory":
		var walFile *wal.WAL
		if cfg.WALPath != "" {
			walFile, err = wal.NewWAL(cfg.WALPath)
			if err != nil {
				logger.Fatal("failed to init wal", zap.Error(err))
			}
			cleanup = append(cleanup, func() { walFile.Close() })
		}
		store, err := memory_adapter.NewStore(walFile)
		if err != nil {
			logger.Fatal("failed to init memory store", zap.Error(err))
		}
		users = store.Users()
		accounts = store.Accounts()
		ledger = store.Ledger()
		txRunner = store
		locks = memory_adapter.NewLockCoordinator()
		logger.Info("using in-memory storage backend")

	default: // mysql
		dbClient, err := mysql.NewClient(cfg.MySQL)
		if err != nil {
			logger.Fatal("failed to connect to mysql", zap.Error(err))
		}
		cleanup = append(cleanup, func() { dbClient.Close() })
		logger.Info("connected to mysql")

		if err := mysql_adapter.AutoMigrate(dbClient); err != nil {
			logger.Fatal("failed to migrate schema", zap.Error(err))
		}

		redisClient, err := redis.NewClient(cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		cleanup = append(cleanup, func() { redisClient.Close() })
		logger.Info("connected to redis")

		users = mysql_adapter.NewUserStore(dbClient)
		accounts = mysql_adapter.NewAccountStore(dbClient)
		ledger = mysql_adapter.NewLedgerStore(dbClient)
		txRunner = dbClient
		locks = redis_adapter.NewLockCoordinator(redisClient, logger)
	}

	if cfg.Seed {
		if err := seedUsers(ctx, users, logger); err != nil {
			logger.Fatal("failed to seed users", zap.Error(err))
		}
	}

	var events usecase.EventPublisher
	if cfg.Kafka.Enabled {
		publisher := kafka_adapter.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		cleanup = append(cleanup, func() { publisher.Close() })
		events = publisher
		logger.Info("kafka publisher enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	transactionUC := usecase.NewTransactionUseCase(users, accounts, ledger, locks, txRunner, events, logger)
	accountUC := usecase.NewAccountUseCase(users, accounts, locks, txRunner, logger)

	server := http_adapter.NewServer(transactionUC, accountUC)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("starting http server", zap.String("addr", addr))
		if err := server.Listen(addr); err != nil {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	if err := server.Shutdown(); err != nil {
		logger.Error("failed to shut down server", zap.Error(err))
	}
	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}
	logger.Info("server exited")
}

// seedUsers 使用者表為空時建立範例使用者 user1 ~ user3
func seedUsers(ctx context.Context, users usecase.UserStore, logger *zap.Logger) error {
	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("users already exist, skipping seed")
		return nil
	}

	now := time.Now()
	for i := 1; i <= 3; i++ {
		user := &domain.User{
			UserID:    fmt.Sprintf("user%d", i),
			Name:      fmt.Sprintf("Sample User %d", i),
			CreatedAt: now,
		}
		if err := users.Save(ctx, user); err != nil {
			return err
		}
	}
	logger.Info("sample users created", zap.Int("count", 3))
	return nil
}

func loadConfig(logger *zap.Logger) Config {
	cfgData, err := os.ReadFile("config/config.yaml")
	if err != nil {
		logger.Fatal("failed to read config file", zap.Error(err))
	}
	var cfg Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		logger.Fatal("failed to parse config", zap.Error(err))
	}

	// 機密一律允許用環境變數覆寫
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		cfg.MySQL.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	// 補全預設配置 (如果 yaml 沒寫)
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage == "" {
		cfg.Storage = "mysql"
	}
	if cfg.MySQL.MaxOpenConns == 0 {
		cfg.MySQL.MaxOpenConns = 100
	}
	if cfg.MySQL.MaxIdleConns == 0 {
		cfg.MySQL.MaxIdleConns = 10
	}
	if cfg.MySQL.ConnMaxLifetime == 0 {
		cfg.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "transaction_completed"
	}
	return cfg
}
