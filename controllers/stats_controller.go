package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/qaforum/utils"
)

// StatsSource reports aggregate counts straight from storage.
type StatsSource interface {
	CountQuestions(ctx context.Context) (int64, error)
	CountReplies(ctx context.Context) (int64, error)
}

// StatsController provides forum statistics.
type StatsController struct {
	src StatsSource
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(src StatsSource) *StatsController {
	return &StatsController{src: src}
}

// GetStats returns question and reply counts.
func (s *StatsController) GetStats(ctx *gin.Context) {
	questions, err := s.src.CountQuestions(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorw("count questions failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load stats")
		return
	}
	replies, err := s.src.CountReplies(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorw("count replies failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load stats")
		return
	}

	utils.Success(ctx, gin.H{
		"question_count": questions,
		"reply_count":    replies,
	})
}
