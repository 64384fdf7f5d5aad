package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/qaforum/dto"
	"github.com/cppla/qaforum/middleware"
	"github.com/cppla/qaforum/service"
	"github.com/cppla/qaforum/utils"
)

// QuestionService is what the controller needs from the service layer.
type QuestionService interface {
	ListQuestions(ctx context.Context) ([]dto.QuestionSummary, error)
	CreateQuestion(ctx context.Context, req dto.QuestionCreateRequest) (dto.QuestionSummary, error)
	CreateReply(ctx context.Context, questionID uint, req dto.ReplyCreateRequest) (dto.ReplySummary, error)
	GetThread(ctx context.Context, questionID uint) (dto.Thread, error)
}

// QuestionController exposes questions and replies over HTTP.
type QuestionController struct {
	svc QuestionService
}

// NewQuestionController creates a new QuestionController instance.
func NewQuestionController(svc QuestionService) *QuestionController {
	return &QuestionController{svc: svc}
}

// ListQuestions returns every question with its reply count.
func (q *QuestionController) ListQuestions(ctx *gin.Context) {
	out, err := q.svc.ListQuestions(ctx.Request.Context())
	if err != nil {
		q.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, out)
}

// CreateQuestion stores a new question.
func (q *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "author and message are required")
		return
	}

	if !checkText(ctx, req.Author, req.Message) {
		return
	}

	out, err := q.svc.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		q.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, out)
}

// CreateReply attaches a reply to the question in the path.
func (q *QuestionController) CreateReply(ctx *gin.Context) {
	var req dto.ReplyCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "author and message are required")
		return
	}

	questionID, ok := parseQuestionID(ctx)
	if !ok {
		return
	}

	if !checkText(ctx, req.Author, req.Message) {
		return
	}

	out, err := q.svc.CreateReply(ctx.Request.Context(), questionID, req)
	if err != nil {
		q.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, out)
}

// GetThread returns the question in the path with all of its replies.
func (q *QuestionController) GetThread(ctx *gin.Context) {
	questionID, ok := parseQuestionID(ctx)
	if !ok {
		return
	}

	out, err := q.svc.GetThread(ctx.Request.Context(), questionID)
	if err != nil {
		q.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, out)
}

// fail maps service errors to responses. Anything unclassified is a server fault.
func (q *QuestionController) fail(ctx *gin.Context, err error) {
	var nf *service.QuestionNotFoundError
	if errors.As(err, &nf) {
		utils.Sugar.Debugw(nf.Error(), "request_id", ctx.GetString(middleware.ContextRequestIDKey))
		utils.Error(ctx, http.StatusNotFound, 40401, nf.Error())
		return
	}

	utils.Sugar.Errorw("request failed",
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
		"request_id", ctx.GetString(middleware.ContextRequestIDKey),
		"error", err,
	)
	_ = ctx.Error(err)
	utils.Error(ctx, http.StatusInternalServerError, 50001, "internal server error")
}

// checkText rejects fields with no visible text or with markup the sanitizer would rewrite.
// Accepted text is stored exactly as sent; escaping is left to whoever renders it.
func checkText(ctx *gin.Context, fields ...string) bool {
	for _, f := range fields {
		if utils.VisibleText(f) == "" {
			utils.Error(ctx, http.StatusBadRequest, 40001, "author and message are required")
			return false
		}
	}
	for _, f := range fields {
		if utils.HasUnsafeMarkup(f) {
			utils.Error(ctx, http.StatusBadRequest, 40003, "author and message must not contain unsafe markup")
			return false
		}
	}
	return true
}

func parseQuestionID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("questionId"), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid question id")
		return 0, false
	}
	return uint(id), true
}
