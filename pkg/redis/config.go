package redis

import "fmt"

// Config 定義 Redis 連線配置
type Config struct {
	Host     string `yaml:"host"`      // Redis 主機地址
	Port     int    `yaml:"port"`      // Redis 埠號 (預設 6379)
	Password string `yaml:"password"`  // 密碼，無認證時留空
	DB       int    `yaml:"db"`        // 資料庫編號
	PoolSize int    `yaml:"pool_size"` // 連線池大小，0 表示使用套件預設
}

// Addr 產生 host:port 連線位址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
