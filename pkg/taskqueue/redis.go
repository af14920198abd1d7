package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// 任务键前缀
	taskKeyPrefix = "task:"
	// 任务状态通知频道前缀
	taskStatusChannel = "task_status:"
	// 默认任务过期时间（7天）
	defaultTaskExpiry = 7 * 24 * time.Hour
	// asynq 默认队列
	defaultQueue = "default"
	// WaitForTask 轮询间隔
	pollInterval = time.Second
)

// RedisQueue Redis任务队列实现
// 任务记录以JSON保存在Redis中，asynq只负责调度任务ID
type RedisQueue struct {
	client      *asynq.Client    // 用于添加任务
	inspector   *asynq.Inspector // 用于管理队列中的任务
	redisClient *redis.Client    // 保存任务记录
	cfg         *Config
	logger      *logrus.Logger
}

// NewRedisQueue 创建Redis任务队列实例
func NewRedisQueue(cfg *Config) (*RedisQueue, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	opt := redisClientOpt(cfg)
	return &RedisQueue{
		client:      asynq.NewClient(opt),
		inspector:   asynq.NewInspector(opt),
		redisClient: redisClient,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

func redisClientOpt(cfg *Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// Enqueue 将任务加入队列
func (q *RedisQueue) Enqueue(ctx context.Context, taskType TaskType, resumeID string, payload interface{}) (string, error) {
	taskID := uuid.New().String()

	payloadBytes, err := MarshalPayload(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	now := time.Now()
	task := &Task{
		ID:         taskID,
		Type:       taskType,
		ResumeID:   resumeID,
		Status:     StatusPending,
		Payload:    payloadBytes,
		CreatedAt:  now,
		UpdatedAt:  now,
		MaxRetries: q.cfg.RetryLimit,
	}

	if err := q.saveTask(ctx, task); err != nil {
		return "", fmt.Errorf("failed to save task to redis: %w", err)
	}

	opts := []asynq.Option{
		asynq.TaskID(taskID),
		asynq.Queue(defaultQueue),
		asynq.MaxRetry(q.cfg.RetryLimit),
	}
	if q.cfg.TaskTimeout > 0 {
		opts = append(opts, asynq.Timeout(q.cfg.TaskTimeout))
	}

	if _, err := q.client.EnqueueContext(ctx, asynq.NewTask(string(taskType), []byte(taskID)), opts...); err != nil {
		q.redisClient.Del(ctx, taskKeyPrefix+taskID)
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	q.logger.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": taskType,
		"resume_id": resumeID,
	}).Info("Task enqueued")

	return taskID, nil
}

// GetTask 获取任务信息
func (q *RedisQueue) GetTask(ctx context.Context, taskID string) (*Task, error) {
	data, err := q.redisClient.Get(ctx, taskKeyPrefix+taskID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task from redis: %w", err)
	}

	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task data: %w", err)
	}
	return &task, nil
}

// WaitForTask 等待任务完成或失败
// 订阅状态通知，同时定时轮询以防错过消息
func (q *RedisQueue) WaitForTask(ctx context.Context, taskID string, timeout time.Duration) (*Task, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pubsub := q.redisClient.Subscribe(ctx, taskStatusChannel+taskID)
	defer pubsub.Close()

	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.Finished() {
		return task, nil
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	updates := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return task, ErrTaskTimeout
		case <-updates:
		case <-ticker.C:
		}

		latest, err := q.GetTask(ctx, taskID)
		if err != nil {
			if ctx.Err() != nil {
				return task, ErrTaskTimeout
			}
			return nil, err
		}
		task = latest
		if task.Status.Finished() {
			return task, nil
		}
	}
}

// DeleteTask 删除任务记录，并尽量从asynq队列中移除
func (q *RedisQueue) DeleteTask(ctx context.Context, taskID string) error {
	n, err := q.redisClient.Del(ctx, taskKeyPrefix+taskID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}

	// 正在处理中的任务无法删除
	if err := q.inspector.DeleteTask(defaultQueue, taskID); err != nil {
		q.logger.WithError(err).WithField("task_id", taskID).Debug("Task not removed from asynq queue")
	}
	return nil
}

// UpdateTaskStatus 更新任务状态
func (q *RedisQueue) UpdateTaskStatus(ctx context.Context, taskID string, status TaskStatus, result interface{}, errMsg string) error {
	var resultBytes json.RawMessage
	if result != nil {
		var err error
		if resultBytes, err = MarshalPayload(result); err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
	}

	_, err := q.updateTask(ctx, taskID, func(task *Task) {
		task.Status = status
		now := time.Now()
		if status == StatusProcessing && task.StartedAt == nil {
			task.StartedAt = &now
		}
		if status.Finished() {
			task.CompletedAt = &now
		}
		if resultBytes != nil {
			task.Result = resultBytes
		}
		if errMsg != "" {
			task.Error = errMsg
		}
	})
	return err
}

// NotifyTaskUpdate 通知任务状态更新
func (q *RedisQueue) NotifyTaskUpdate(ctx context.Context, taskID string) error {
	return q.redisClient.Publish(ctx, taskStatusChannel+taskID, "updated").Err()
}

// Close 关闭队列连接
func (q *RedisQueue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	if err := q.inspector.Close(); err != nil {
		return err
	}
	return q.redisClient.Close()
}

// updateTask 读取任务、修改后写回，返回修改后的任务
func (q *RedisQueue) updateTask(ctx context.Context, taskID string, mutate func(*Task)) (*Task, error) {
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	mutate(task)
	task.UpdatedAt = time.Now()
	if err := q.saveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// saveTask 将任务信息保存到Redis
func (q *RedisQueue) saveTask(ctx context.Context, task *Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := q.redisClient.Set(ctx, taskKeyPrefix+task.ID, data, defaultTaskExpiry).Err(); err != nil {
		return fmt.Errorf("failed to save task data: %w", err)
	}
	return nil
}

// RedisWorker Redis工作者实现
type RedisWorker struct {
	server   *asynq.Server
	queue    *RedisQueue
	handlers map[TaskType]Handler
	logger   *logrus.Logger
}

// NewRedisWorker 创建Redis工作者
func NewRedisWorker(queue *RedisQueue, cfg *Config) *RedisWorker {
	if cfg == nil {
		cfg = queue.cfg
	}

	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{defaultQueue: 1}
	}

	server := asynq.NewServer(redisClientOpt(cfg), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      queues,
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			return cfg.RetryDelay
		},
		Logger: queue.logger,
	})

	return &RedisWorker{
		server:   server,
		queue:    queue,
		handlers: make(map[TaskType]Handler),
		logger:   queue.logger,
	}
}

// RegisterHandler 注册任务处理器
func (w *RedisWorker) RegisterHandler(taskType TaskType, handler Handler) {
	w.handlers[taskType] = handler
}

// Start 启动工作者，非阻塞
func (w *RedisWorker) Start() error {
	mux := asynq.NewServeMux()
	for taskType, handler := range w.handlers {
		mux.HandleFunc(string(taskType), w.handle(handler))
		w.logger.WithField("task_type", taskType).Info("Registered handler for task type")
	}
	return w.server.Start(mux)
}

// Stop 停止工作者，等待正在处理的任务结束
func (w *RedisWorker) Stop() {
	w.server.Shutdown()
}

// handle 包装处理器，维护任务记录的状态
func (w *RedisWorker) handle(h Handler) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		taskID := string(t.Payload())
		log := w.logger.WithField("task_id", taskID)

		task, err := w.queue.updateTask(ctx, taskID, func(task *Task) {
			task.Status = StatusProcessing
			task.Attempts++
			if task.StartedAt == nil {
				now := time.Now()
				task.StartedAt = &now
			}
		})
		if err != nil {
			log.WithError(err).Error("Failed to mark task as processing")
			if errors.Is(err, ErrTaskNotFound) {
				return Permanent(err)
			}
			return err
		}
		w.queue.NotifyTaskUpdate(ctx, taskID)

		start := time.Now()
		result, procErr := h.ProcessTask(ctx, task)

		if procErr != nil {
			status := StatusPending
			if FinalAttempt(ctx, procErr) {
				status = StatusFailed
			}
			if err := w.queue.UpdateTaskStatus(ctx, taskID, status, nil, procErr.Error()); err != nil {
				log.WithError(err).Error("Failed to update task status after failure")
			}
			w.queue.NotifyTaskUpdate(ctx, taskID)
			log.WithError(procErr).WithField("status", status).Warn("Task processing failed")
			return procErr
		}

		if err := w.queue.UpdateTaskStatus(ctx, taskID, StatusCompleted, result, ""); err != nil {
			log.WithError(err).Error("Failed to update task status after completion")
		}
		w.queue.NotifyTaskUpdate(ctx, taskID)
		log.WithField("duration", time.Since(start).String()).Info("Task completed")
		return nil
	}
}

// Permanent 标记不应重试的错误
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
}

// FinalAttempt 判断失败后asynq是否不再重试
// 在asynq处理上下文之外调用时总是返回true
func FinalAttempt(ctx context.Context, err error) bool {
	if errors.Is(err, asynq.SkipRetry) {
		return true
	}
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= maxRetry
}

// 队列工厂函数映射
var queueFactories = make(map[string]Factory)

// RegisterQueueFactory 注册队列工厂函数
func RegisterQueueFactory(name string, factory Factory) {
	queueFactories[name] = factory
}

// NewQueue 根据名称创建队列实例
func NewQueue(name string, cfg *Config) (Queue, error) {
	factory, exists := queueFactories[name]
	if !exists {
		return nil, fmt.Errorf("unknown queue implementation: %s", name)
	}
	return factory(cfg)
}

func init() {
	RegisterQueueFactory("redis", func(cfg *Config) (Queue, error) {
		q, err := NewRedisQueue(cfg)
		if err != nil {
			return nil, err
		}
		return q, nil
	})
}
