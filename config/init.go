package config

import (
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// envPrefix 环境变量前缀，例如 CLUB_MYSQL_HOST
const envPrefix = "CLUB"

var current atomic.Pointer[Config]

func init() {
	current.Store(defaults())
}

func defaults() *Config {
	return &Config{
		Host:   "0.0.0.0",
		Port:   "8080",
		Prefix: "api",
		Mode:   ModeDebug,
		Storage: Storage{
			Driver:  StorageLocal,
			Home:    "public/uploads",
			BaseURL: "/uploads",
		},
		JWT:       JWT{AccessExpire: 3600},
		RoleCache: RoleCache{TTLSeconds: 300},
		Log: Log{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
		OTel: OTel{ServiceName: "club-management-system"},
	}
}

// Init 读取 config.yaml，再用环境变量覆盖
func Init() {
	c := defaults()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	} else if err := v.Unmarshal(c); err != nil {
		panic(err)
	}

	if err := envconfig.Process(envPrefix, c); err != nil {
		panic(err)
	}
	if c.Mode != ModeRelease {
		c.Mode = ModeDebug
	}
	current.Store(c)
}

// Get 返回当前配置；Init 之前返回调试默认值
func Get() *Config {
	return current.Load()
}

// Set 替换当前配置，主要给测试使用
func Set(c *Config) {
	current.Store(c)
}
