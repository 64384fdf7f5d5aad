package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/qaforum/dto"
	"github.com/cppla/qaforum/models"
	"github.com/cppla/qaforum/service"
	"github.com/cppla/qaforum/storage/memory"
	"github.com/cppla/qaforum/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
}

// failingStorage fails every call with err.
type failingStorage struct {
	err error
}

func (f failingStorage) FindAllQuestions(ctx context.Context) ([]models.Question, error) {
	return nil, f.err
}

func (f failingStorage) FindQuestionByID(ctx context.Context, id uint) (*models.Question, error) {
	return nil, f.err
}

func (f failingStorage) SaveQuestion(ctx context.Context, q *models.Question) (*models.Question, error) {
	return nil, f.err
}

func (f failingStorage) SaveReply(ctx context.Context, r *models.Reply) (*models.Reply, error) {
	return nil, f.err
}

func (f failingStorage) CountQuestions(ctx context.Context) (int64, error) { return 0, f.err }

func (f failingStorage) CountReplies(ctx context.Context) (int64, error) { return 0, f.err }

func newTestEngine(svc QuestionService, stats StatsSource) *gin.Engine {
	r := gin.New()
	c := NewQuestionController(svc)
	r.GET("/questions", c.ListQuestions)
	r.POST("/questions", c.CreateQuestion)
	r.GET("/questions/:questionId", c.GetThread)
	r.POST("/questions/:questionId/reply", c.CreateReply)
	r.GET("/stats", NewStatsController(stats).GetStats)
	return r
}

func newMemoryEngine() (*gin.Engine, *memory.Store) {
	store := memory.New()
	return newTestEngine(service.NewQuestionService(store, store), store), store
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListQuestions_Empty(t *testing.T) {
	r, _ := newMemoryEngine()

	w := doJSON(r, http.MethodGet, "/questions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListQuestions_WithReplyCounts(t *testing.T) {
	r, store := newMemoryEngine()
	ctx := context.Background()
	q1, _ := store.SaveQuestion(ctx, &models.Question{Author: "alice", Message: "hi"})
	_, _ = store.SaveQuestion(ctx, &models.Question{Author: "bob", Message: "yo"})
	_, _ = store.SaveReply(ctx, &models.Reply{QuestionID: q1.ID, Author: "carol", Message: "hey"})

	w := doJSON(r, http.MethodGet, "/questions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":1,"author":"alice","message":"hi","replies":1},
		{"id":2,"author":"bob","message":"yo","replies":0}
	]`, w.Body.String())
}

func TestCreateQuestion(t *testing.T) {
	r, _ := newMemoryEngine()

	w := doJSON(r, http.MethodPost, "/questions", `{"author":"alice","message":"hi"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"author":"alice","message":"hi","replies":0}`, w.Body.String())
}

func TestCreateQuestion_Validation(t *testing.T) {
	r, store := newMemoryEngine()

	bodies := []string{
		`{"message":"hi"}`,
		`{"author":"alice"}`,
		`{"author":null,"message":"hi"}`,
		`{"author":"   ","message":"hi"}`,
		`{"author":"alice","message":"<script>x</script>"}`,
		`{"author":"alice","message":"<b></b>"}`,
		`{"author":"alice","message":"<p> </p>"}`,
		`{"author":"<i>&nbsp;</i>","message":"hi"}`,
		`{"author":"alice","message":"<a href=\"javascript:alert(1)\">x</a>"}`,
		`not json`,
	}
	for _, body := range bodies {
		w := doJSON(r, http.MethodPost, "/questions", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	n, err := store.CountQuestions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateQuestion_PlainTextKeptAsSent(t *testing.T) {
	r, store := newMemoryEngine()

	cases := []struct{ author, message string }{
		{"Tom & Jerry", `is 1 < 2? it's "true"`},
		{"O'Brien", "fish & chips > salad"},
		{"alice", "&lt;b&gt; means bold"},
		{"bob", "line one\nline two"},
		{"carol", "<b>bold</b> is allowed"},
	}
	for _, tc := range cases {
		body, err := json.Marshal(dto.QuestionCreateRequest{Author: tc.author, Message: tc.message})
		require.NoError(t, err)

		w := doJSON(r, http.MethodPost, "/questions", string(body))
		require.Equal(t, http.StatusCreated, w.Code, tc.message)

		var out dto.QuestionSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, tc.author, out.Author)
		assert.Equal(t, tc.message, out.Message)

		stored, err := store.FindQuestionByID(context.Background(), out.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, tc.author, stored.Author)
		assert.Equal(t, tc.message, stored.Message)
	}
}

func TestCreateQuestion_UnsafeMarkup(t *testing.T) {
	r, _ := newMemoryEngine()

	w := doJSON(r, http.MethodPost, "/questions", `{"author":"alice","message":"hi <img src=x onerror=alert(1)>"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 40003, body.Code)
}

func TestCreateReply_PlainTextKeptAsSent(t *testing.T) {
	r, store := newMemoryEngine()
	_, _ = store.SaveQuestion(context.Background(), &models.Question{Author: "alice", Message: "hi"})

	w := doJSON(r, http.MethodPost, "/questions/1/reply", `{"author":"Tom & Jerry","message":"it's fine"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var out dto.ReplySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Tom & Jerry", out.Author)
	assert.Equal(t, "it's fine", out.Message)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/questions/1/reply", `{"author":"bob","message":"<b></b>"}`).Code)
}

func TestCreateReply(t *testing.T) {
	r, store := newMemoryEngine()
	q, _ := store.SaveQuestion(context.Background(), &models.Question{Author: "alice", Message: "hi"})

	w := doJSON(r, http.MethodPost, "/questions/1/reply", `{"author":"bob","message":"hey"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var out dto.ReplySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, dto.ReplySummary{ID: 1, QuestionID: q.ID, Author: "bob", Message: "hey"}, out)
}

func TestCreateReply_QuestionNotFound(t *testing.T) {
	r, store := newMemoryEngine()

	w := doJSON(r, http.MethodPost, "/questions/99/reply", `{"author":"bob","message":"hey"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Question with id:99 does not exist.", body.Message)

	n, err := store.CountReplies(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateReply_BadInput(t *testing.T) {
	r, _ := newMemoryEngine()

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/questions/abc/reply", `{"author":"bob","message":"hey"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/questions/0/reply", `{"author":"bob","message":"hey"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/questions/1/reply", `{"author":"bob"}`).Code)
}

func TestGetThread(t *testing.T) {
	r, store := newMemoryEngine()
	ctx := context.Background()
	q, _ := store.SaveQuestion(ctx, &models.Question{Author: "alice", Message: "hi"})
	_, _ = store.SaveReply(ctx, &models.Reply{QuestionID: q.ID, Author: "bob", Message: "hey"})
	_, _ = store.SaveReply(ctx, &models.Reply{QuestionID: q.ID, Author: "carol", Message: "yo"})

	w := doJSON(r, http.MethodGet, "/questions/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"id":1,"author":"alice","message":"hi",
		"replies":[{"id":1,"author":"bob","message":"hey"},{"id":2,"author":"carol","message":"yo"}]
	}`, w.Body.String())
}

func TestGetThread_NoReplies(t *testing.T) {
	r, store := newMemoryEngine()
	_, _ = store.SaveQuestion(context.Background(), &models.Question{Author: "alice", Message: "hi"})

	w := doJSON(r, http.MethodGet, "/questions/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"author":"alice","message":"hi","replies":[]}`, w.Body.String())
}

func TestGetThread_NotFound(t *testing.T) {
	r, _ := newMemoryEngine()

	w := doJSON(r, http.MethodGet, "/questions/7", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Question with id:7 does not exist.")
}

func TestStorageFailuresAreServerErrors(t *testing.T) {
	store := failingStorage{err: errors.New("connection refused")}
	r := newTestEngine(service.NewQuestionService(store, store), store)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/questions", ""},
		{http.MethodPost, "/questions", `{"author":"alice","message":"hi"}`},
		{http.MethodPost, "/questions/1/reply", `{"author":"bob","message":"hey"}`},
		{http.MethodGet, "/questions/1", ""},
		{http.MethodGet, "/stats", ""},
	}
	for _, tc := range cases {
		w := doJSON(r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, tc.method+" "+tc.path)
		assert.NotContains(t, w.Body.String(), "connection refused")
	}
}

func TestGetStats(t *testing.T) {
	r, store := newMemoryEngine()
	ctx := context.Background()
	q, _ := store.SaveQuestion(ctx, &models.Question{Author: "alice", Message: "hi"})
	_, _ = store.SaveReply(ctx, &models.Reply{QuestionID: q.ID, Author: "bob", Message: "hey"})

	w := doJSON(r, http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"question_count":1,"reply_count":1}}`, w.Body.String())
}
