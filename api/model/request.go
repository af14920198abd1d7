package model

import "mime/multipart"

// ResumeUploadRequest 简历文件上传请求
type ResumeUploadRequest struct {
	File *multipart.FileHeader `form:"resume" binding:"required"` // 简历文件
}

// ResumeTextRequest 简历文本解析请求，允许空字符串
type ResumeTextRequest struct {
	Text *string `json:"text" binding:"required"`
}

// TaskRequest 任务查询路径参数
type TaskRequest struct {
	ID string `uri:"id" binding:"required,uuid"` // 任务ID
}

// TaskQuery 任务查询参数
type TaskQuery struct {
	Wait int `form:"wait" binding:"omitempty,min=0,max=60"` // 最长等待秒数
}
