package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alicebob/miniredis/v2"
	"github.com/fyerfyer/resume-parser/api/handler"
	"github.com/fyerfyer/resume-parser/api/model"
	"github.com/fyerfyer/resume-parser/internal/cache"
	"github.com/fyerfyer/resume-parser/internal/ner"
	"github.com/fyerfyer/resume-parser/internal/resume"
	"github.com/fyerfyer/resume-parser/internal/services"
	"github.com/fyerfyer/resume-parser/pkg/storage"
	"github.com/fyerfyer/resume-parser/pkg/taskqueue"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = "John Smith\njohn.smith@email.com\n(555) 123-4567\nExperience\nAnalyst Jan 2019 to Mar 2021\nDid analysis.\nSkills\nExcel, GAAP"

// 测试环境配置
type testEnv struct {
	Router  *gin.Engine
	Storage storage.Storage
	Queue   *taskqueue.RedisQueue
}

type envOptions struct {
	async      bool
	recognizer ner.Recognizer
	maxUpload  int64
}

// failingRecognizer 总是返回错误的实体识别器
type failingRecognizer struct{}

func (failingRecognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	return nil, errors.New("service unavailable")
}

func (failingRecognizer) Name() string { return "failing" }

// 创建测试环境
func setupTestEnv(t *testing.T, opts envOptions) *testEnv {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	fileStorage, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	mem, err := cache.NewMemoryCache(cache.DefaultConfig())
	require.NoError(t, err)

	var parserOpts []resume.Option
	if opts.recognizer != nil {
		parserOpts = append(parserOpts, resume.WithRecognizer(opts.recognizer))
	}

	svcOpts := []services.ResumeOption{
		services.WithStorage(fileStorage),
		services.WithResultCache(cache.NewResultCache(mem, time.Minute)),
		services.WithLogger(logger),
	}

	env := &testEnv{Storage: fileStorage}
	if opts.async {
		mr := miniredis.RunT(t)
		queue, err := taskqueue.NewRedisQueue(&taskqueue.Config{RedisAddr: mr.Addr(), Logger: logger})
		require.NoError(t, err)
		t.Cleanup(func() { queue.Close() })

		env.Queue = queue
		svcOpts = append(svcOpts, services.WithTaskQueue(queue))
	}

	svc := services.NewResumeService(resume.NewParser(parserOpts...), svcOpts...)
	env.Router = SetupRouter(RouterConfig{},
		handler.NewResumeHandler(svc, opts.maxUpload),
		handler.NewTaskHandler(svc),
		handler.NewWebHandler(svc, opts.maxUpload),
	)
	return env
}

// multipartBody 构造包含单个文件字段的表单
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, path, filename string, content []byte) *httptest.ResponseRecorder {
	body, contentType := multipartBody(t, "resume", filename, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return e.do(req)
}

func (e *testEnv) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

// decodeResponse 解析统一响应，Data解析到data中
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) model.Response {
	var raw struct {
		model.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Response
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var health model.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.Async)
	assert.Equal(t, []string{"pdf", "docx", "doc", "txt", "rtf"}, health.Extensions)
}

func TestParseText(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	w := env.postJSON("/api/resumes/text", `{"text":"`+strings.ReplaceAll(sampleResume, "\n", `\n`)+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	var result resume.ParseResult
	resp := decodeResponse(t, w, &result)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "John Smith", result.Contact.Name)
	assert.Equal(t, []string{"(555) 123-4567"}, result.Contact.Phones)
	assert.Equal(t, []string{"preamble", "experience", "skills"}, result.Sections)

	t.Run("EmptyText", func(t *testing.T) {
		w := env.postJSON("/api/resumes/text", `{"text":""}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"experience":[]`)
		assert.Contains(t, w.Body.String(), `"name":"Not Found"`)
	})

	t.Run("MissingText", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/resumes/text", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Trace-ID", "trace-123")
		w := env.do(req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "Invalid request body", resp.Message)
		assert.Equal(t, "trace-123", resp.TraceID)
		assert.Equal(t, "trace-123", w.Header().Get("X-Trace-ID"))
	})
}

func TestParseTextRecognizerFailure(t *testing.T) {
	env := setupTestEnv(t, envOptions{recognizer: failingRecognizer{}})

	w := env.postJSON("/api/resumes/text", `{"text":"John Smith"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Entity recognition failed", decodeResponse(t, w, nil).Message)
}

func TestParseUpload(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	t.Run("PlainText", func(t *testing.T) {
		w := env.upload(t, "/api/resumes", "resume.txt", []byte(sampleResume))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result resume.ParseResult
		decodeResponse(t, w, &result)
		assert.Equal(t, "John Smith", result.Contact.Name)
		assert.Contains(t, result.Skills["accounting"], "GAAP")

		files, err := env.Storage.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		w := env.upload(t, "/api/resumes", "resume.exe", []byte("MZ"))
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "File type not supported. Please upload PDF, DOCX, DOC, TXT, or RTF.", decodeResponse(t, w, nil).Message)
	})

	t.Run("NoFile", func(t *testing.T) {
		w := env.upload(t, "/api/resumes", "", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No file selected", decodeResponse(t, w, nil).Message)
	})

	t.Run("Unreadable", func(t *testing.T) {
		w := env.upload(t, "/api/resumes", "broken.txt", []byte("\xff\xfe\xfd"))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeResponse(t, w, nil).Message, "could not parse file broken.txt")
	})
}

func TestParseUploadTooLarge(t *testing.T) {
	env := setupTestEnv(t, envOptions{maxUpload: 8})

	w := env.upload(t, "/api/resumes", "resume.txt", []byte(sampleResume))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeResponse(t, w, nil).Message, "File too large")
}

func TestAsyncDisabled(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	w := env.postJSON("/api/resumes/text/async", `{"text":"John Smith"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.upload(t, "/api/resumes/async", "resume.txt", []byte(sampleResume))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAsyncTasks(t *testing.T) {
	env := setupTestEnv(t, envOptions{async: true})
	ctx := context.Background()

	w := env.upload(t, "/api/resumes/async", "resume.txt", []byte(sampleResume))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var submitted model.TaskSubmitResponse
	decodeResponse(t, w, &submitted)
	require.NotEmpty(t, submitted.TaskID)
	assert.Equal(t, "pending", submitted.Status)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/tasks/"+submitted.TaskID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var info taskqueue.TaskInfo
	decodeResponse(t, w, &info)
	assert.Equal(t, taskqueue.StatusPending, info.Status)
	assert.Empty(t, info.Result)

	// 模拟工作者完成任务
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = env.Queue.UpdateTaskStatus(ctx, submitted.TaskID, taskqueue.StatusCompleted, map[string]string{"name": "John Smith"}, "")
		_ = env.Queue.NotifyTaskUpdate(ctx, submitted.TaskID)
	}()

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/tasks/"+submitted.TaskID+"?wait=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	decodeResponse(t, w, &info)
	assert.Equal(t, taskqueue.StatusCompleted, info.Status)
	assert.JSONEq(t, `{"name":"John Smith"}`, string(info.Result))

	w = env.do(httptest.NewRequest(http.MethodDelete, "/api/tasks/"+submitted.TaskID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/tasks/"+submitted.TaskID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/tasks/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.postJSON("/api/resumes/text/async", `{"text":"John Smith"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestWebUpload(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	page := func(w *httptest.ResponseRecorder) *goquery.Document {
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		return doc
	}

	doc := page(env.do(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, 1, doc.Find(`form input[name="resume"]`).Length())
	assert.Equal(t, 0, doc.Find(".flash").Length())

	doc = page(env.upload(t, "/", "", nil))
	assert.Equal(t, "No file selected", doc.Find(".flash").Text())

	doc = page(env.upload(t, "/", "photo.png", []byte("x")))
	assert.Equal(t, "File type not supported. Please upload PDF, DOCX, DOC, TXT, or RTF.", doc.Find(".flash").Text())

	doc = page(env.upload(t, "/", "broken.txt", []byte("\xff\xfe")))
	assert.True(t, strings.HasPrefix(doc.Find(".flash").Text(), "Error: could not parse file broken.txt"))

	doc = page(env.upload(t, "/", "resume.txt", []byte(sampleResume)))
	assert.Equal(t, 0, doc.Find(".flash").Length())
	assert.Equal(t, "John Smith", doc.Find(".result h1").Text())
}

func TestUnsupportedTypeMessage(t *testing.T) {
	w := setupTestEnv(t, envOptions{}).upload(t, "/api/resumes", "cv.odt", []byte("x"))
	assert.Contains(t, w.Body.String(), "PDF, DOCX, DOC, TXT, or RTF")
}
