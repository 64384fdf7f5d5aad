package storage

import (
	"context"

	"github.com/cppla/qaforum/models"
)

// Storage is the contract every question/reply store fulfils.
type Storage interface {
	FindAllQuestions(ctx context.Context) ([]models.Question, error)
	// FindQuestionByID returns (nil, nil) when no question has the id.
	FindQuestionByID(ctx context.Context, id uint) (*models.Question, error)
	SaveQuestion(ctx context.Context, q *models.Question) (*models.Question, error)
	SaveReply(ctx context.Context, r *models.Reply) (*models.Reply, error)

	CountQuestions(ctx context.Context) (int64, error)
	CountReplies(ctx context.Context) (int64, error)
}
