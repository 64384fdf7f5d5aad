// Package dto holds the request and response shapes exchanged with HTTP clients.
package dto

// QuestionCreateRequest is the body of a create-question call.
type QuestionCreateRequest struct {
	Author  string `json:"author" binding:"required,notblank"`
	Message string `json:"message" binding:"required,notblank"`
}

// ReplyCreateRequest is the body of a create-reply call; the question id comes from the path.
type ReplyCreateRequest struct {
	Author  string `json:"author" binding:"required,notblank"`
	Message string `json:"message" binding:"required,notblank"`
}

// QuestionSummary describes a question without its replies.
type QuestionSummary struct {
	ID         uint   `json:"id"`
	Author     string `json:"author"`
	Message    string `json:"message"`
	ReplyCount int    `json:"replies"`
}

// ReplySummary describes a stored reply together with the id of its question.
type ReplySummary struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"questionId"`
	Author     string `json:"author"`
	Message    string `json:"message"`
}

// Thread is a question with every reply attached to it.
type Thread struct {
	ID      uint          `json:"id"`
	Author  string        `json:"author"`
	Message string        `json:"message"`
	Replies []ThreadReply `json:"replies"`
}

// ThreadReply is a reply inside a Thread. It carries no question reference.
type ThreadReply struct {
	ID      uint   `json:"id"`
	Author  string `json:"author"`
	Message string `json:"message"`
}
