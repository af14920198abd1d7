package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage 对任意存储实现执行相同的读写删流程
func exerciseStorage(t *testing.T, s Storage) {
	ctx := context.Background()
	content := "John Smith\nSkills\nExcel"

	info, err := s.Save(ctx, strings.NewReader(content), "resume.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "resume.txt", info.Name)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, "text/plain", info.MimeType)

	t.Run("Get", func(t *testing.T) {
		rc, err := s.Get(ctx, info.ID)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("List", func(t *testing.T) {
		files, err := s.List(ctx)
		require.NoError(t, err)

		var ids []string
		for _, f := range files {
			ids = append(ids, f.ID)
		}
		assert.Contains(t, ids, info.ID)
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := s.Exists(ctx, info.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.Exists(ctx, "non-existent-id")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, info.ID))

		exists, err := s.Exists(ctx, info.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		err = s.Delete(ctx, info.ID)
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = s.Get(ctx, info.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

// TestLocalStorage 测试本地存储实现
func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()
	localStorage, err := NewLocalStorage(LocalConfig{Path: tempDir})
	require.NoError(t, err)

	info, err := localStorage.Save(context.Background(), strings.NewReader("x"), "cv.pdf")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(tempDir, info.Path))
	assert.NoError(t, err)
	assert.Equal(t, "application/pdf", info.MimeType)
	require.NoError(t, localStorage.Delete(context.Background(), info.ID))

	exerciseStorage(t, localStorage)
}

// TestMinioStorage 需要设置 MINIO_ENDPOINT 指向可用的MinIO服务
func TestMinioStorage(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set, skipping MinIO tests")
	}

	minioStorage, err := NewMinioStorage(MinioConfig{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "resume-parser-test",
		Prefix:    "test",
	})
	require.NoError(t, err)

	exerciseStorage(t, minioStorage)
}

// TestStorageFactory 测试存储工厂函数
func TestStorageFactory(t *testing.T) {
	s, err := New(Config{Type: "local", Local: LocalConfig{Path: filepath.Join(t.TempDir(), "nested", "uploads")}})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestGetMimeType(t *testing.T) {
	assert.Equal(t, "application/msword", getMimeType("a.DOC"))
	assert.Equal(t, "application/octet-stream", getMimeType("a.bin"))
	assert.Equal(t, "abc", idFromName("2024/01/02/abc.pdf"))
}
