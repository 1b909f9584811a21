package compiler

import (
	"github.com/aretw0/gforms/internal/wire"
	"github.com/aretw0/gforms/pkg/domain"
)

// Settings blocks of the form block. Any of them may be null.
const (
	blockFirst  = 2
	blockSecond = 10
	blockQuiz   = 16
)

const (
	firstConfirmation  = 0
	firstResubmitLink  = 1
	firstShowSummary   = 2
	firstEditResponses = 3

	secondProgressbar     = 0
	secondSubmitOnce      = 1
	secondShuffle         = 2
	secondReceipt         = 3
	secondDisableAutosave = 5
	secondCollectEmails   = 6

	quizGrades          = 0
	quizImmediateGrades = 1
	quizIsQuiz          = 2

	gradesMissed  = 2
	gradesCorrect = 3
	gradesPoints  = 4
)

func decodeSettings(block any) domain.Settings {
	s := domain.DefaultSettings()

	if first := wire.Get(block, blockFirst); first != nil {
		s.ConfirmationMsg = wire.StringOr(wire.Get(first, firstConfirmation), "")
		s.ResubmitLink = wire.Truthy(wire.Get(first, firstResubmitLink))
		s.ShowSummary = wire.Truthy(wire.Get(first, firstShowSummary))
		s.EditResponses = wire.Truthy(wire.Get(first, firstEditResponses))
	}

	if second := wire.Get(block, blockSecond); second != nil {
		s.ShowProgressbar = wire.Truthy(wire.Get(second, secondProgressbar))
		s.SubmitOnce = wire.Truthy(wire.Get(second, secondSubmitOnce))
		s.ShuffleQuestions = wire.Truthy(wire.Get(second, secondShuffle))
		s.SendReceipt = domain.Receipt(wire.IntOr(wire.Get(second, secondReceipt), int64(domain.ReceiptUnused)))
		s.DisableAutosave = wire.Truthy(wire.Get(second, secondDisableAutosave))
		s.CollectEmails = domain.CollectEmails(wire.IntOr(wire.Get(second, secondCollectEmails), int64(domain.CollectEmailsNo)))
	}

	quiz := wire.Get(block, blockQuiz)
	s.IsQuiz = wire.Truthy(wire.Get(quiz, quizIsQuiz))
	if s.IsQuiz {
		s.ImmediateGrades = wire.Truthy(wire.Get(quiz, quizImmediateGrades))
		grades := wire.Get(quiz, quizGrades)
		s.ShowMissed = wire.Truthy(wire.Get(grades, gradesMissed))
		s.ShowCorrectAnswers = wire.Truthy(wire.Get(grades, gradesCorrect))
		s.ShowPoints = wire.Truthy(wire.Get(grades, gradesPoints))
	}
	return s
}
