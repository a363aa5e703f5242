package assignment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ungraded is the grade every submission starts with.
const Ungraded = "NA"

var ErrNotFound = errors.New("assignment not found")

type Assignment struct {
	ID      string    `json:"id"`
	Owner   string    `json:"owner"`
	Student string    `json:"student"`
	Name    string    `json:"name"`
	Comment string    `json:"comment,omitempty"`
	Detail  string    `json:"detail,omitempty"`
	Grade   string    `json:"grade"`
	Date    time.Time `json:"date"`
}

type SubmitRequest struct {
	Student string `form:"student" validate:"required,max=100"`
	Name    string `form:"name" validate:"required,max=100"`
	Comment string `form:"comment" validate:"max=2000"`
	Detail  string `form:"detail" validate:"max=2000"`
}

func (a Assignment) IsGraded() bool {
	return a.Grade != Ungraded
}

func NewFromSubmitRequest(owner string, req SubmitRequest) Assignment {
	return Assignment{
		ID:      uuid.NewString(),
		Owner:   owner,
		Student: req.Student,
		Name:    req.Name,
		Comment: req.Comment,
		Detail:  req.Detail,
		Grade:   Ungraded,
		Date:    time.Now().UTC(),
	}
}
