package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Error(ctx, http.StatusNotFound, 40401, "Question with id:1 does not exist.")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 40401, body.Code)
	assert.Equal(t, "Question with id:1 does not exist.", body.Message)
	assert.Nil(t, body.Data)
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Success(ctx, gin.H{"status": "ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"status":"ok"}}`, w.Body.String())
}

func TestRecoveryWithZap(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithZap(Logger, true))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestHasUnsafeMarkup(t *testing.T) {
	tests := []struct {
		input  string
		unsafe bool
	}{
		{"hello", false},
		{"Tom & Jerry", false},
		{"it's", false},
		{`is 1 < 2? "yes"`, false},
		{"a &amp; b", false},
		{"first\r\nsecond", false},
		{"<b>bold</b>", false},
		{"<script>alert(1)</script>", true},
		{"<img src=x onerror=alert(1)>", true},
		{`<a href="javascript:alert(1)">x</a>`, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.unsafe, HasUnsafeMarkup(tt.input), tt.input)
	}
}

func TestVisibleText(t *testing.T) {
	assert.Equal(t, "hello", VisibleText("  hello  "))
	assert.Equal(t, "Tom & Jerry", VisibleText("Tom & Jerry"))
	assert.Equal(t, "it's", VisibleText("it's"))
	assert.Equal(t, "bold", VisibleText("<b>bold</b>"))
	assert.Equal(t, "", VisibleText("<b></b>"))
	assert.Equal(t, "", VisibleText("<p> </p>"))
	assert.Equal(t, "", VisibleText("<script>alert(1)</script>"))
}

func TestNewRollingFileLogger(t *testing.T) {
	_, err := NewRollingFileLogger("", "info", 1, 1, 1, false)
	assert.Error(t, err)

	l, err := NewRollingFileLogger(t.TempDir()+"/logs/gin.log", "info", 1, 1, 1, false)
	require.NoError(t, err)
	l.Info("hello")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("nonsense").String())
}
