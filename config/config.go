package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Upload        UploadConfig        `mapstructure:"upload"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Queue         QueueConfig         `mapstructure:"queue"`
	NER           NERConfig           `mapstructure:"ner"`
	PythonService PythonServiceConfig `mapstructure:"python_service"`
	Parser        ParserConfig        `mapstructure:"parser"`
	Log           LogConfig           `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`             // 服务器主机
	Port            int           `mapstructure:"port"`             // 服务器端口
	Mode            string        `mapstructure:"mode"`             // gin模式：debug/release/test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`     // 读超时
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`    // 写超时
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // 优雅关闭等待时间
	EnableCORS      bool          `mapstructure:"enable_cors"`      // 是否允许跨域
}

// UploadConfig 上传配置
type UploadConfig struct {
	AllowedExtensions []string `mapstructure:"allowed_extensions"` // 允许的扩展名（不含点）
	MaxSize           int64    `mapstructure:"max_size"`           // 最大上传字节数
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type      string `mapstructure:"type"`     // 存储类型：local 或 minio
	Path      string `mapstructure:"path"`     // 本地存储路径
	Bucket    string `mapstructure:"bucket"`   // MinIO桶名称
	Prefix    string `mapstructure:"prefix"`   // MinIO对象前缀
	Endpoint  string `mapstructure:"endpoint"` // MinIO端点
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"` // 是否使用SSL
}

// CacheConfig 解析结果缓存配置
type CacheConfig struct {
	Enable   bool          `mapstructure:"enable"`   // 是否启用缓存
	Type     string        `mapstructure:"type"`     // 缓存类型：memory 或 redis
	Address  string        `mapstructure:"address"`  // Redis地址
	Password string        `mapstructure:"password"` // Redis密码
	DB       int           `mapstructure:"db"`       // Redis数据库
	Prefix   string        `mapstructure:"prefix"`   // 键前缀
	TTL      time.Duration `mapstructure:"ttl"`      // 缓存TTL
}

// QueueConfig 异步解析任务队列配置
type QueueConfig struct {
	Enable        bool          `mapstructure:"enable"`         // 是否启用任务队列
	Type          string        `mapstructure:"type"`           // 队列类型，目前只有redis
	RedisAddr     string        `mapstructure:"redis_addr"`     // Redis地址
	RedisPassword string        `mapstructure:"redis_password"` // Redis密码
	RedisDB       int           `mapstructure:"redis_db"`       // Redis数据库编号
	Concurrency   int           `mapstructure:"concurrency"`    // 任务处理并发数
	RetryLimit    int           `mapstructure:"retry_limit"`    // 任务最大重试次数
	RetryDelay    time.Duration `mapstructure:"retry_delay"`    // 重试延迟
	TaskTimeout   time.Duration `mapstructure:"task_timeout"`   // 单个任务超时
	Worker        bool          `mapstructure:"worker"`         // 是否在本进程运行工作者
}

// NERConfig 命名实体识别配置
type NERConfig struct {
	Provider string        `mapstructure:"provider"` // prose、python 或 none
	Timeout  time.Duration `mapstructure:"timeout"`  // 单次识别超时
}

// PythonServiceConfig Python NER服务配置
type PythonServiceConfig struct {
	BaseURL    string        `mapstructure:"base_url"`    // Python服务基础URL
	Timeout    time.Duration `mapstructure:"timeout"`     // 请求超时时间
	MaxRetries int           `mapstructure:"max_retries"` // 最大重试次数
	RetryDelay time.Duration `mapstructure:"retry_delay"` // 重试间隔
}

// ParserConfig 简历解析配置
type ParserConfig struct {
	TaxonomyFile string        `mapstructure:"taxonomy_file"` // 自定义技能分类TOML文件，为空使用内置分类
	Timeout      time.Duration `mapstructure:"timeout"`       // 单次解析超时
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // 日志级别
	File       string `mapstructure:"file"`        // 日志文件，为空时只输出到标准输出
	MaxSize    int    `mapstructure:"max_size"`    // 单个文件最大MB
	MaxBackups int    `mapstructure:"max_backups"` // 保留的旧文件数
	MaxAge     int    `mapstructure:"max_age"`     // 保留天数
	Compress   bool   `mapstructure:"compress"`    // 是否压缩
}

// Load 从文件和环境变量加载配置
// 当前目录存在 .env 时先加载其中的环境变量，配置文件不存在时使用默认值
func Load(configPath string) (*Config, error) {
	var config Config

	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Printf("Warning: Config file not found at %s, using defaults", configPath)
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	setDefaults(v)

	// 环境变量覆盖，如 SERVER_PORT、QUEUE_REDIS_ADDR
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return processEnvironmentVariables(&config), nil
}

// processEnvironmentVariables 展开 ${VAR} 形式的敏感配置
func processEnvironmentVariables(cfg *Config) *Config {
	for _, field := range []*string{
		&cfg.Storage.AccessKey,
		&cfg.Storage.SecretKey,
		&cfg.Cache.Password,
		&cfg.Queue.RedisPassword,
		&cfg.PythonService.BaseURL,
	} {
		*field = expandEnv(*field)
	}
	return cfg
}

// expandEnv 值为 ${VAR} 且环境变量非空时替换
func expandEnv(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	if envVal := os.Getenv(value[2 : len(value)-1]); envVal != "" {
		return envVal
	}
	return value
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.enable_cors", false)

	// 上传默认配置
	v.SetDefault("upload.allowed_extensions", []string{"pdf", "docx", "doc", "txt", "rtf"})
	v.SetDefault("upload.max_size", 10<<20)

	// 存储默认配置
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.path", "./uploads")
	v.SetDefault("storage.bucket", "resumes")
	v.SetDefault("storage.prefix", "uploads")
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", false)

	// 缓存默认配置
	v.SetDefault("cache.enable", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.prefix", "resume")
	v.SetDefault("cache.ttl", "1h")

	// 队列默认配置
	v.SetDefault("queue.enable", false)
	v.SetDefault("queue.type", "redis")
	v.SetDefault("queue.redis_addr", "localhost:6379")
	v.SetDefault("queue.redis_password", "")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.retry_limit", 2)
	v.SetDefault("queue.retry_delay", "10s")
	v.SetDefault("queue.task_timeout", "2m")
	v.SetDefault("queue.worker", true)

	// 实体识别默认配置
	v.SetDefault("ner.provider", "prose")
	v.SetDefault("ner.timeout", "10s")

	// Python服务默认配置
	v.SetDefault("python_service.base_url", "http://localhost:8000/api")
	v.SetDefault("python_service.timeout", "30s")
	v.SetDefault("python_service.max_retries", 0)
	v.SetDefault("python_service.retry_delay", "1s")

	// 解析默认配置
	v.SetDefault("parser.taxonomy_file", "")
	v.SetDefault("parser.timeout", "30s")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)
}
