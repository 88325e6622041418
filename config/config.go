package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host      string `envconfig:"HOST"`
	Port      string `envconfig:"PORT"`
	Prefix    string `envconfig:"PREFIX"`
	Mode      Mode   `envconfig:"MODE"`
	Storage   Storage
	Mysql     Mysql
	Redis     Redis
	JWT       JWT
	RoleCache RoleCache `mapstructure:"role_cache" split_words:"true"`
	Log       Log       `mapstructure:"Log"`
	S3        S3
	Sentry    Sentry
	OTel      OTel `mapstructure:"otel"`
}

type StorageDriver string

const (
	StorageLocal StorageDriver = "local"
	StorageS3    StorageDriver = "s3"
)

// Storage 上传文件的存放位置
type Storage struct {
	Driver  StorageDriver `mapstructure:"driver" envconfig:"DRIVER"`
	Home    string        `mapstructure:"home" envconfig:"HOME"`         // 本地保存目录
	BaseURL string        `mapstructure:"base_url" envconfig:"BASE_URL"` // 本地文件对外访问前缀，例如 /uploads
}

type S3 struct {
	Endpoint        string `mapstructure:"endpoint"`
	BaseURL         string `mapstructure:"base_url"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_key"`
	Prefix          string `mapstructure:"prefix"`
	UsePathStyle    bool   `mapstructure:"path_style"`
}

type Mysql struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	DBName   string `mapstructure:"db_name" envconfig:"DB_NAME"`
}

type Redis struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWT struct {
	AccessSecret string `mapstructure:"access_secret" envconfig:"ACCESS_SECRET"`
	AccessExpire int64  `mapstructure:"access_expire" envconfig:"ACCESS_EXPIRE"` // 秒
}

// RoleCache 角色缓存，角色变更后旧 token 中的角色以缓存为准
type RoleCache struct {
	TTLSeconds int `mapstructure:"ttl_seconds" envconfig:"TTL_SECONDS"`
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string        `envconfig:"DSN"`
	Environment string        `envconfig:"ENVIRONMENT"`
	SampleRate  float64       `mapstructure:"sample_rate" envconfig:"SAMPLE_RATE"`
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int `mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int `mapstructure:"redis_slow_threshold_ms"`
}

type OTel struct {
	Enable      bool   `envconfig:"ENABLE"`
	AgentHost   string `mapstructure:"agent_host" envconfig:"AGENT_HOST"`
	AgentPort   string `mapstructure:"agent_port" envconfig:"AGENT_PORT"`
	ServiceName string `mapstructure:"service_name" envconfig:"SERVICE_NAME"`
}
