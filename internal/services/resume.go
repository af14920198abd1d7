package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fyerfyer/resume-parser/internal/cache"
	"github.com/fyerfyer/resume-parser/internal/document"
	"github.com/fyerfyer/resume-parser/internal/resume"
	"github.com/fyerfyer/resume-parser/pkg/storage"
	"github.com/fyerfyer/resume-parser/pkg/taskqueue"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnsupportedFile 上传文件的扩展名不在允许列表中
	ErrUnsupportedFile = errors.New("file type not supported")
	// ErrAsyncDisabled 未配置任务队列
	ErrAsyncDisabled = errors.New("async processing not enabled")
	// ErrStorageRequired 异步上传需要文件存储
	ErrStorageRequired = errors.New("file storage not configured")
)

// ResumeService 简历服务
// 负责协调文件暂存、文本提取、解析和结果缓存
type ResumeService struct {
	parser  *resume.Parser     // 简历解析器
	cache   *cache.ResultCache // 解析结果缓存，可为nil
	storage storage.Storage    // 上传文件暂存，可为nil
	queue   taskqueue.Queue    // 异步任务队列，可为nil
	allowed []string           // 允许上传的扩展名
	timeout time.Duration      // 单次解析超时
	logger  *logrus.Logger     // 日志记录器
}

// ResumeOption 简历服务配置选项
type ResumeOption func(*ResumeService)

// NewResumeService 创建简历服务
func NewResumeService(parser *resume.Parser, opts ...ResumeOption) *ResumeService {
	if parser == nil {
		parser = resume.NewParser()
	}

	srv := &ResumeService{
		parser:  parser,
		allowed: document.DefaultAllowedExtensions,
		timeout: 30 * time.Second,
		logger:  logrus.New(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// WithResultCache 设置解析结果缓存
func WithResultCache(c *cache.ResultCache) ResumeOption {
	return func(s *ResumeService) {
		s.cache = c
	}
}

// WithStorage 设置上传文件存储
func WithStorage(st storage.Storage) ResumeOption {
	return func(s *ResumeService) {
		s.storage = st
	}
}

// WithTaskQueue 设置任务队列，启用异步解析
func WithTaskQueue(q taskqueue.Queue) ResumeOption {
	return func(s *ResumeService) {
		s.queue = q
	}
}

// WithAllowedExtensions 设置允许上传的扩展名
func WithAllowedExtensions(exts []string) ResumeOption {
	return func(s *ResumeService) {
		if len(exts) > 0 {
			s.allowed = exts
		}
	}
}

// WithTimeout 设置单次解析超时，0表示不限制
func WithTimeout(timeout time.Duration) ResumeOption {
	return func(s *ResumeService) {
		s.timeout = timeout
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) ResumeOption {
	return func(s *ResumeService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// AllowedExtensions 返回允许上传的扩展名
func (s *ResumeService) AllowedExtensions() []string {
	return s.allowed
}

// AsyncEnabled 是否可以提交异步任务
func (s *ResumeService) AsyncEnabled() bool {
	return s.queue != nil
}

// ParseText 解析简历文本，命中缓存时直接返回
func (s *ResumeService) ParseText(ctx context.Context, text string) (*resume.ParseResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, text)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to read parse result from cache")
		} else if found {
			s.logger.WithField("sections", cached.Sections).Debug("Parse result served from cache")
			return cached, nil
		}
	}

	start := time.Now()
	result, err := s.parser.Parse(ctx, text)
	if err != nil {
		s.logger.WithError(err).Error("Failed to parse resume")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, text, result); err != nil {
			s.logger.WithError(err).Warn("Failed to cache parse result")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"sections": result.Sections,
		"duration": time.Since(start).String(),
	}).Info("Resume parsed")

	return result, nil
}

// ParseUpload 解析上传的简历文件
// 文件只在解析期间保存在存储中，无论成功与否都会被删除
func (s *ResumeService) ParseUpload(ctx context.Context, r io.Reader, filename string) (*resume.ParseResult, error) {
	if err := s.checkFile(filename); err != nil {
		return nil, err
	}

	log := s.logger.WithField("filename", filename)

	if s.storage == nil {
		text, err := document.ExtractTextReader(r, filename)
		if err != nil {
			log.WithError(err).Warn("Failed to extract text from upload")
			return nil, err
		}
		return s.ParseText(ctx, text)
	}

	info, err := s.storage.Save(ctx, r, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	defer s.removeFile(info.ID)

	log = log.WithField("resume_id", info.ID)
	log.Debug("Upload stored")

	text, err := s.extractStored(ctx, info.ID, filename)
	if err != nil {
		log.WithError(err).Warn("Failed to extract text from upload")
		return nil, err
	}
	return s.ParseText(ctx, text)
}

// SubmitText 提交异步解析文本的任务
func (s *ResumeService) SubmitText(ctx context.Context, text string) (string, error) {
	if s.queue == nil {
		return "", ErrAsyncDisabled
	}

	taskID, err := s.queue.Enqueue(ctx, taskqueue.TaskResumeParse, "", &taskqueue.ResumeParsePayload{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to submit parse task: %w", err)
	}
	return taskID, nil
}

// SubmitUpload 保存上传文件并提交异步解析任务
func (s *ResumeService) SubmitUpload(ctx context.Context, r io.Reader, filename string) (string, error) {
	if s.queue == nil {
		return "", ErrAsyncDisabled
	}
	if s.storage == nil {
		return "", ErrStorageRequired
	}
	if err := s.checkFile(filename); err != nil {
		return "", err
	}

	info, err := s.storage.Save(ctx, r, filename)
	if err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	payload := &taskqueue.ResumeParsePayload{FileID: info.ID, FileName: filename}
	taskID, err := s.queue.Enqueue(ctx, taskqueue.TaskResumeParse, info.ID, payload)
	if err != nil {
		s.removeFile(info.ID)
		return "", fmt.Errorf("failed to submit parse task: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"task_id":   taskID,
		"resume_id": info.ID,
		"filename":  filename,
	}).Info("Resume submitted for async parsing")

	return taskID, nil
}

// GetTask 查询异步任务，wait大于0时最多等待该时长直到任务结束
func (s *ResumeService) GetTask(ctx context.Context, taskID string, wait time.Duration) (*taskqueue.Task, error) {
	if s.queue == nil {
		return nil, ErrAsyncDisabled
	}
	if wait <= 0 {
		return s.queue.GetTask(ctx, taskID)
	}

	task, err := s.queue.WaitForTask(ctx, taskID, wait)
	if errors.Is(err, taskqueue.ErrTaskTimeout) && task != nil {
		return task, nil
	}
	return task, err
}

// DeleteTask 删除异步任务记录
func (s *ResumeService) DeleteTask(ctx context.Context, taskID string) error {
	if s.queue == nil {
		return ErrAsyncDisabled
	}
	return s.queue.DeleteTask(ctx, taskID)
}

// checkFile 检查文件名和扩展名
func (s *ResumeService) checkFile(filename string) error {
	if !document.IsAllowed(filename, s.allowed) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, filepath.Ext(filename))
	}
	return nil
}

// extractStored 从存储中读取文件并提取文本
func (s *ResumeService) extractStored(ctx context.Context, id, filename string) (string, error) {
	rc, err := s.storage.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	defer rc.Close()

	return document.ExtractTextReader(rc, filename)
}

// removeFile 删除暂存文件，使用独立的上下文以免请求取消后残留
func (s *ResumeService) removeFile(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.storage.Delete(ctx, id); err != nil {
		s.logger.WithError(err).WithField("resume_id", id).Warn("Failed to delete stored upload")
	}
}
