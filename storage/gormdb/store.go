package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/qaforum/models"
)

// Store implements storage.Storage on top of gorm.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// replyKeys loads only what the list view needs to count replies.
func replyKeys(db *gorm.DB) *gorm.DB {
	return db.Select("id", "question_id").Order("id ASC")
}

// FindAllQuestions loads every question. Replies carry only their ids, enough to count them.
func (s *Store) FindAllQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Preload("Replies", replyKeys).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// FindQuestionByID returns the question with its replies fully loaded, or nil when it does not exist.
func (s *Store) FindQuestionByID(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	err := s.db.WithContext(ctx).
		Preload("Replies", orderByID).
		First(&q, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find question %d: %w", id, err)
	}
	return &q, nil
}

func (s *Store) SaveQuestion(ctx context.Context, q *models.Question) (*models.Question, error) {
	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	// gorm fills ID and timestamps after create
	return q, nil
}

func (s *Store) SaveReply(ctx context.Context, r *models.Reply) (*models.Reply, error) {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return r, nil
}

func (s *Store) CountQuestions(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Question{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (s *Store) CountReplies(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Reply{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count replies: %w", err)
	}
	return n, nil
}
