package services

import (
	"context"
	"fmt"

	"github.com/fyerfyer/resume-parser/pkg/taskqueue"
	"github.com/sirupsen/logrus"
)

// ResumeTaskHandler 处理 resume_parse 异步任务
type ResumeTaskHandler struct {
	svc *ResumeService
}

// NewResumeTaskHandler 创建简历解析任务处理器
func NewResumeTaskHandler(svc *ResumeService) *ResumeTaskHandler {
	return &ResumeTaskHandler{svc: svc}
}

// GetTaskTypes 返回支持的任务类型
func (h *ResumeTaskHandler) GetTaskTypes() []taskqueue.TaskType {
	return []taskqueue.TaskType{taskqueue.TaskResumeParse}
}

// ProcessTask 解析任务中的文本或暂存文件，返回解析结果
// 文本提取失败不会重试；实体识别失败按队列配置重试
func (h *ResumeTaskHandler) ProcessTask(ctx context.Context, task *taskqueue.Task) (interface{}, error) {
	var payload taskqueue.ResumeParsePayload
	if err := taskqueue.UnmarshalPayload(task.Payload, &payload); err != nil {
		return nil, taskqueue.Permanent(fmt.Errorf("%w: %v", taskqueue.ErrInvalidPayload, err))
	}

	log := h.svc.logger.WithFields(logrus.Fields{
		"task_id":   task.ID,
		"resume_id": payload.FileID,
	})

	if payload.FileID == "" {
		return h.svc.ParseText(ctx, payload.Text)
	}
	if h.svc.storage == nil {
		return nil, taskqueue.Permanent(ErrStorageRequired)
	}

	result, err := h.parseStored(ctx, payload)
	if err == nil || taskqueue.FinalAttempt(ctx, err) {
		h.svc.removeFile(payload.FileID)
	}
	if err != nil {
		log.WithError(err).Warn("Resume task failed")
		return nil, err
	}
	return result, nil
}

func (h *ResumeTaskHandler) parseStored(ctx context.Context, payload taskqueue.ResumeParsePayload) (interface{}, error) {
	text, err := h.svc.extractStored(ctx, payload.FileID, payload.FileName)
	if err != nil {
		return nil, taskqueue.Permanent(err)
	}
	return h.svc.ParseText(ctx, text)
}
