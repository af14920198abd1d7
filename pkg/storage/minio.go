package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage MinIO存储实现
type MinioStorage struct {
	client     *minio.Client // MinIO客户端
	bucketName string        // 存储桶名称
	prefix     string        // 对象名前缀
}

// MinioConfig MinIO存储配置
type MinioConfig struct {
	Endpoint  string // MinIO服务端点
	AccessKey string // 访问密钥ID
	SecretKey string // 秘密访问密钥
	UseSSL    bool   // 是否使用SSL
	Bucket    string // 存储桶名称
	Prefix    string // 对象名前缀，默认 uploads
}

// NewMinioStorage 创建MinIO存储实例，存储桶不存在时自动创建
func NewMinioStorage(cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}

	return &MinioStorage{
		client:     client,
		bucketName: cfg.Bucket,
		prefix:     prefix,
	}, nil
}

// Save 流式上传文件到MinIO
func (s *MinioStorage) Save(ctx context.Context, reader io.Reader, filename string) (FileInfo, error) {
	id := uuid.New().String()
	objectName := fmt.Sprintf("%s/%s%s", s.prefix, id, filepath.Ext(filename))
	contentType := getMimeType(filename)

	info, err := s.client.PutObject(ctx, s.bucketName, objectName, reader, -1,
		minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: map[string]string{"filename": filename},
		})
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to upload file: %w", err)
	}

	return FileInfo{
		ID:       id,
		Name:     filename,
		Size:     info.Size,
		MimeType: contentType,
		Path:     objectName,
	}, nil
}

// Get 获取MinIO中的文件
func (s *MinioStorage) Get(ctx context.Context, id string) (io.ReadCloser, error) {
	objectName, err := s.objectName(ctx, id)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return obj, nil
}

// Delete 从MinIO中删除文件
func (s *MinioStorage) Delete(ctx context.Context, id string) error {
	objectName, err := s.objectName(ctx, id)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// List 列出前缀下的所有文件
func (s *MinioStorage) List(ctx context.Context) ([]FileInfo, error) {
	return s.list(ctx, s.prefix+"/")
}

// Exists 检查MinIO中是否存在指定ID的文件
func (s *MinioStorage) Exists(ctx context.Context, id string) (bool, error) {
	files, err := s.list(ctx, s.prefix+"/"+id)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// objectName 按ID前缀查找对象名
func (s *MinioStorage) objectName(ctx context.Context, id string) (string, error) {
	files, err := s.list(ctx, s.prefix+"/"+id)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.ID == id {
			return f.Path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *MinioStorage) list(ctx context.Context, prefix string) ([]FileInfo, error) {
	var files []FileInfo

	for object := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		files = append(files, FileInfo{
			ID:       idFromName(object.Key),
			Name:     filepath.Base(object.Key),
			Size:     object.Size,
			MimeType: getMimeType(object.Key),
			Path:     object.Key,
		})
	}
	return files, nil
}
