package service

import (
	"github.com/cppla/qaforum/dto"
	"github.com/cppla/qaforum/models"
)

// ToSummary maps a question to its summary view. A nil reply collection counts as zero.
func ToSummary(q models.Question) dto.QuestionSummary {
	return dto.QuestionSummary{
		ID:         q.ID,
		Author:     q.Author,
		Message:    q.Message,
		ReplyCount: len(q.Replies),
	}
}

// ToQuestion builds a persistable question. ID and replies are left for storage.
func ToQuestion(req dto.QuestionCreateRequest) models.Question {
	return models.Question{
		Author:  req.Author,
		Message: req.Message,
	}
}

// ToThread maps a question with its replies. Replies is never nil.
func ToThread(q models.Question) dto.Thread {
	replies := make([]dto.ThreadReply, 0, len(q.Replies))
	for _, r := range q.Replies {
		replies = append(replies, ToThreadReply(r))
	}
	return dto.Thread{
		ID:      q.ID,
		Author:  q.Author,
		Message: q.Message,
		Replies: replies,
	}
}

// ToThreadReply maps a reply for display inside its thread.
func ToThreadReply(r models.Reply) dto.ThreadReply {
	return dto.ThreadReply{
		ID:      r.ID,
		Author:  r.Author,
		Message: r.Message,
	}
}

// ToReplySummary maps a stored reply. The reply must reference its question.
func ToReplySummary(r models.Reply) (dto.ReplySummary, error) {
	if r.QuestionID == 0 {
		return dto.ReplySummary{}, ErrDetachedReply
	}
	return dto.ReplySummary{
		ID:         r.ID,
		QuestionID: r.QuestionID,
		Author:     r.Author,
		Message:    r.Message,
	}, nil
}

// ToReply builds a persistable reply. The caller sets QuestionID after looking the question up.
func ToReply(req dto.ReplyCreateRequest) models.Reply {
	return models.Reply{
		Author:  req.Author,
		Message: req.Message,
	}
}
