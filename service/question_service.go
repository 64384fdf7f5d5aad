package service

import (
	"context"

	"github.com/cppla/qaforum/dto"
	"github.com/cppla/qaforum/models"
)

// QuestionStorage is the part of the store the service reads questions from.
// FindQuestionByID returns (nil, nil) when the question does not exist and otherwise
// returns it with every reply loaded.
type QuestionStorage interface {
	FindAllQuestions(ctx context.Context) ([]models.Question, error)
	FindQuestionByID(ctx context.Context, id uint) (*models.Question, error)
	SaveQuestion(ctx context.Context, q *models.Question) (*models.Question, error)
}

// ReplyStorage persists replies.
type ReplyStorage interface {
	SaveReply(ctx context.Context, r *models.Reply) (*models.Reply, error)
}

// QuestionService implements the question and reply use cases.
// It keeps no state between calls and is safe for concurrent use.
type QuestionService struct {
	questions QuestionStorage
	replies   ReplyStorage
}

// NewQuestionService creates a service over the given stores.
func NewQuestionService(questions QuestionStorage, replies ReplyStorage) *QuestionService {
	return &QuestionService{questions: questions, replies: replies}
}

// ListQuestions returns a summary of every stored question, in storage order.
func (s *QuestionService) ListQuestions(ctx context.Context) ([]dto.QuestionSummary, error) {
	questions, err := s.questions.FindAllQuestions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuestionSummary, 0, len(questions))
	for _, q := range questions {
		out = append(out, ToSummary(q))
	}
	return out, nil
}

// CreateQuestion stores a new question without any existence checks.
func (s *QuestionService) CreateQuestion(ctx context.Context, req dto.QuestionCreateRequest) (dto.QuestionSummary, error) {
	q := ToQuestion(req)
	saved, err := s.questions.SaveQuestion(ctx, &q)
	if err != nil {
		return dto.QuestionSummary{}, err
	}
	return ToSummary(*saved), nil
}

// CreateReply attaches a reply to an existing question.
func (s *QuestionService) CreateReply(ctx context.Context, questionID uint, req dto.ReplyCreateRequest) (dto.ReplySummary, error) {
	q, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return dto.ReplySummary{}, err
	}

	r := ToReply(req)
	r.QuestionID = q.ID
	saved, err := s.replies.SaveReply(ctx, &r)
	if err != nil {
		return dto.ReplySummary{}, err
	}
	return ToReplySummary(*saved)
}

// GetThread returns the question with all of its replies.
func (s *QuestionService) GetThread(ctx context.Context, questionID uint) (dto.Thread, error) {
	q, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return dto.Thread{}, err
	}
	return ToThread(*q), nil
}

func (s *QuestionService) findQuestion(ctx context.Context, id uint) (*models.Question, error) {
	q, err := s.questions.FindQuestionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, &QuestionNotFoundError{ID: id}
	}
	return q, nil
}
