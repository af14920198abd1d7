package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fyerfyer/resume-parser/api"
	"github.com/fyerfyer/resume-parser/api/handler"
	"github.com/fyerfyer/resume-parser/api/middleware"
	appconfig "github.com/fyerfyer/resume-parser/config"
	"github.com/fyerfyer/resume-parser/internal/cache"
	"github.com/fyerfyer/resume-parser/internal/ner"
	"github.com/fyerfyer/resume-parser/internal/resume"
	"github.com/fyerfyer/resume-parser/internal/services"
	"github.com/fyerfyer/resume-parser/pkg/storage"
	"github.com/fyerfyer/resume-parser/pkg/taskqueue"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 命令行选项，显式设置时覆盖配置文件
type options struct {
	ConfigFile  string // 配置文件路径
	Port        int    // 服务端口
	Mode        string // 运行模式 (debug/release)
	LogLevel    string // 日志级别
	StoragePath string // 本地存储路径
	NER         string // 实体识别提供者
	Queue       bool   // 是否启用任务队列
	RedisAddr   string // 任务队列Redis地址
}

func main() {
	opts := parseFlags()

	cfg, err := appconfig.Load(opts.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, opts)

	gin.SetMode(cfg.Server.Mode)

	logger := setupLogger(cfg.Log)
	logger.Info("Starting Resume Parser...")

	// 创建文件存储服务
	fileStorage, err := setupStorage(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// 创建解析器
	parser, err := setupParser(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize parser: %v", err)
	}

	serviceOptions := []services.ResumeOption{
		services.WithStorage(fileStorage),
		services.WithAllowedExtensions(cfg.Upload.AllowedExtensions),
		services.WithTimeout(cfg.Parser.Timeout),
		services.WithLogger(logger),
	}

	// 创建缓存服务
	if cfg.Cache.Enable {
		resultCache, err := setupCache(cfg.Cache)
		if err != nil {
			logger.Fatalf("Failed to initialize cache: %v", err)
		}
		serviceOptions = append(serviceOptions, services.WithResultCache(resultCache))
	}

	// 初始化任务队列（如果启用）
	var queue *taskqueue.RedisQueue
	if cfg.Queue.Enable {
		queue, err = setupTaskQueue(cfg.Queue, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer queue.Close()
		serviceOptions = append(serviceOptions, services.WithTaskQueue(queue))
		logger.Info("Task queue initialized successfully")
	}

	resumeService := services.NewResumeService(parser, serviceOptions...)

	// 在本进程中处理异步任务
	if queue != nil && cfg.Queue.Worker {
		worker := taskqueue.NewRedisWorker(queue, nil)
		taskHandler := services.NewResumeTaskHandler(resumeService)
		for _, taskType := range taskHandler.GetTaskTypes() {
			worker.RegisterHandler(taskType, taskHandler)
		}
		if err := worker.Start(); err != nil {
			logger.Fatalf("Failed to start task worker: %v", err)
		}
		defer worker.Stop()
	}

	// 设置路由
	r := api.SetupRouter(api.RouterConfig{EnableCORS: cfg.Server.EnableCORS},
		handler.NewResumeHandler(resumeService, cfg.Upload.MaxSize),
		handler.NewTaskHandler(resumeService),
		handler.NewWebHandler(resumeService, cfg.Upload.MaxSize),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 优雅关闭
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// parseFlags 解析命令行参数
func parseFlags() options {
	var opts options

	flag.StringVar(&opts.ConfigFile, "config", "config.yaml", "Path to config file")
	flag.IntVar(&opts.Port, "port", 8080, "Server port")
	flag.StringVar(&opts.Mode, "mode", "release", "Run mode (debug/release)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	flag.StringVar(&opts.StoragePath, "storage", "./uploads", "Local upload storage path")
	flag.StringVar(&opts.NER, "ner", "prose", "Entity recognizer ("+joinProviders()+")")
	flag.BoolVar(&opts.Queue, "queue", false, "Enable async parse queue")
	flag.StringVar(&opts.RedisAddr, "redis-addr", "localhost:6379", "Redis address for task queue")

	flag.Parse()
	return opts
}

// applyFlags 只用命令行上明确设置的参数覆盖配置
func applyFlags(cfg *appconfig.Config, opts options) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = opts.Port
		case "mode":
			cfg.Server.Mode = opts.Mode
		case "log-level":
			cfg.Log.Level = opts.LogLevel
		case "storage":
			cfg.Storage.Type = "local"
			cfg.Storage.Path = opts.StoragePath
		case "ner":
			cfg.NER.Provider = opts.NER
		case "queue":
			cfg.Queue.Enable = opts.Queue
		case "redis-addr":
			cfg.Queue.RedisAddr = opts.RedisAddr
		}
	})

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Queue.RedisAddr = redisAddr
	}
}

func joinProviders() string {
	s := "none"
	for _, name := range ner.Providers() {
		s += "/" + name
	}
	return s
}

// setupLogger 设置日志系统
func setupLogger(cfg appconfig.LogConfig) *logrus.Logger {
	return middleware.ConfigureLogger(middleware.LogOptions{
		Level:      cfg.Level,
		File:       cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
}

// setupStorage 设置上传文件暂存
func setupStorage(cfg appconfig.StorageConfig) (storage.Storage, error) {
	return storage.New(storage.Config{
		Type:  cfg.Type,
		Local: storage.LocalConfig{Path: cfg.Path},
		Minio: storage.MinioConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
		},
	})
}

// setupParser 创建简历解析器，按配置加载实体识别器和技能分类
func setupParser(cfg *appconfig.Config, logger *logrus.Logger) (*resume.Parser, error) {
	var parserOptions []resume.Option

	if cfg.NER.Provider != "" && cfg.NER.Provider != "none" {
		recognizer, err := ner.NewRecognizer(cfg.NER.Provider,
			ner.WithBaseURL(cfg.PythonService.BaseURL),
			ner.WithTimeout(cfg.NER.Timeout),
			ner.WithMaxRetries(cfg.PythonService.MaxRetries),
			ner.WithRetryDelay(cfg.PythonService.RetryDelay),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create recognizer: %w", err)
		}
		parserOptions = append(parserOptions, resume.WithRecognizer(recognizer))
		logger.WithField("provider", recognizer.Name()).Info("Entity recognizer enabled")
	}

	if cfg.Parser.TaxonomyFile != "" {
		taxonomy, err := resume.LoadTaxonomy(cfg.Parser.TaxonomyFile)
		if err != nil {
			return nil, err
		}
		parserOptions = append(parserOptions, resume.WithTaxonomy(taxonomy))
		logger.WithFields(logrus.Fields{
			"file":       cfg.Parser.TaxonomyFile,
			"categories": taxonomy.CategoryNames(),
		}).Info("Loaded skill taxonomy")
	}

	return resume.NewParser(parserOptions...), nil
}

// setupCache 设置解析结果缓存
func setupCache(cfg appconfig.CacheConfig) (*cache.ResultCache, error) {
	c, err := cache.NewCache(cache.Config{
		Type:          cfg.Type,
		RedisAddr:     cfg.Address,
		RedisPassword: cfg.Password,
		RedisDB:       cfg.DB,
		KeyPrefix:     cfg.Prefix,
		DefaultTTL:    cfg.TTL,
	})
	if err != nil {
		return nil, err
	}
	return cache.NewResultCache(c, cfg.TTL), nil
}

// setupTaskQueue 设置任务队列
func setupTaskQueue(cfg appconfig.QueueConfig, logger *logrus.Logger) (*taskqueue.RedisQueue, error) {
	queueConfig := &taskqueue.Config{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		Concurrency:   cfg.Concurrency,
		RetryLimit:    cfg.RetryLimit,
		RetryDelay:    cfg.RetryDelay,
		TaskTimeout:   cfg.TaskTimeout,
		Logger:        logger,
	}

	logger.WithFields(logrus.Fields{
		"type":        cfg.Type,
		"redis_addr":  cfg.RedisAddr,
		"concurrency": cfg.Concurrency,
		"retry_limit": cfg.RetryLimit,
	}).Info("Setting up task queue")

	queue, err := taskqueue.NewQueue(cfg.Type, queueConfig)
	if err != nil {
		return nil, err
	}
	redisQueue, ok := queue.(*taskqueue.RedisQueue)
	if !ok {
		return nil, fmt.Errorf("queue type %s does not support workers", cfg.Type)
	}
	return redisQueue, nil
}
