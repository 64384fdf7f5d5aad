package service

import (
	"errors"
	"fmt"
)

// ErrDetachedReply reports a stored reply without an owning question. It indicates corrupted data, not bad input.
var ErrDetachedReply = errors.New("reply has no owning question")

// QuestionNotFoundError is returned when a referenced question id has no record.
type QuestionNotFoundError struct {
	ID uint
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("Question with id:%d does not exist.", e.ID)
}

// IsQuestionNotFound reports whether err is, or wraps, a QuestionNotFoundError.
func IsQuestionNotFound(err error) bool {
	var nf *QuestionNotFoundError
	return errors.As(err, &nf)
}
