package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cppla/qaforum/models"
)

// Store keeps questions and replies in process memory.
type Store struct {
	mu             sync.RWMutex
	questions      map[uint]models.Question
	replies        map[uint][]models.Reply // keyed by question id
	nextQuestionID uint
	nextReplyID    uint
}

func New() *Store {
	return &Store{
		questions:      make(map[uint]models.Question),
		replies:        make(map[uint][]models.Reply),
		nextQuestionID: 1,
		nextReplyID:    1,
	}
}

// FindAllQuestions returns every question ordered by id, each with its replies.
func (s *Store) FindAllQuestions(ctx context.Context) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Question, 0, len(s.questions))
	for id := range s.questions {
		out = append(out, s.materialize(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindQuestionByID(ctx context.Context, id uint) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.questions[id]; !ok {
		return nil, nil
	}
	q := s.materialize(id)
	return &q, nil
}

func (s *Store) SaveQuestion(ctx context.Context, q *models.Question) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.ID == 0 {
		q.ID = s.nextQuestionID
		s.nextQuestionID++
	}
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now

	stored := *q
	stored.Replies = nil
	s.questions[q.ID] = stored
	return q, nil
}

func (s *Store) SaveReply(ctx context.Context, r *models.Reply) (*models.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[r.QuestionID]; !ok {
		return nil, fmt.Errorf("question %d not found", r.QuestionID)
	}
	if r.ID == 0 {
		r.ID = s.nextReplyID
		s.nextReplyID++
	}
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	s.replies[r.QuestionID] = append(s.replies[r.QuestionID], *r)
	return r, nil
}

func (s *Store) CountQuestions(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.questions)), nil
}

func (s *Store) CountReplies(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, rs := range s.replies {
		n += int64(len(rs))
	}
	return n, nil
}

// materialize copies the question and its replies so callers never share storage memory.
// Caller must hold the lock.
func (s *Store) materialize(id uint) models.Question {
	q := s.questions[id]
	if rs := s.replies[id]; len(rs) > 0 {
		q.Replies = append([]models.Reply(nil), rs...)
	}
	return q
}
