package domain

import (
	"errors"
	"time"
)

// ErrSubmissionNotFound is returned when a journal entry cannot be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionStatus is the outcome of one submission attempt.
type SubmissionStatus string

const (
	SubmissionOK     SubmissionStatus = "ok"
	SubmissionFailed SubmissionStatus = "failed"
	SubmissionClosed SubmissionStatus = "closed"
)

// Submission is a journal entry describing one submission attempt.
type Submission struct {
	ID       string           `json:"id"`
	FormURL  string           `json:"form_url"`
	Attempt  int              `json:"attempt"`
	Status   SubmissionStatus `json:"status"`
	Pages    []int            `json:"pages"`
	History  string           `json:"history,omitempty"`
	Emulated bool             `json:"emulated,omitempty"`
	// Answers maps question names to the submitted answers.
	Answers    map[string][]string `json:"answers,omitempty"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Error      string              `json:"error,omitempty"`
	Links      SubmissionLinks     `json:"links"`
}

// SubmissionLinks are the links offered by the confirmation page.
type SubmissionLinks struct {
	Resubmit  string `json:"resubmit,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Edit      string `json:"edit,omitempty"`
	QuizScore string `json:"quiz_score,omitempty"`
}
