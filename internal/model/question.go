package model

import (
	"errors"
	"fmt"
	"time"
)

// Question is one multiple-choice entry of the question bank.
// Loaded once at startup and shared read-only by every room.
type Question struct {
	ID           string   `json:"id" yaml:"id" bson:"id"`
	Text         string   `json:"text" yaml:"text" bson:"text"`
	Options      []string `json:"options" yaml:"options" bson:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correctIndex" bson:"correctIndex"`
	DurationMs   int      `json:"durationMs" yaml:"durationMs" bson:"durationMs"`
}

// Duration returns the answering window of the question.
func (q *Question) Duration() time.Duration {
	return time.Duration(q.DurationMs) * time.Millisecond
}

// HasOption reports whether idx addresses one of the options.
func (q *Question) HasOption(idx int) bool {
	return idx >= 0 && idx < len(q.Options)
}

// Validate checks that the question can be played.
func (q *Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("question %q: needs at least two options", q.ID)
	}
	if !q.HasOption(q.CorrectIndex) {
		return fmt.Errorf("question %q: correct index %d out of range", q.ID, q.CorrectIndex)
	}
	if q.DurationMs <= 0 {
		return fmt.Errorf("question %q: duration must be positive", q.ID)
	}
	return nil
}

// ErrEmptyQuestionBank is returned when a source yields no questions.
var ErrEmptyQuestionBank = errors.New("question bank is empty")

// ValidateBank validates every question and rejects an empty bank.
func ValidateBank(questions []Question) error {
	if len(questions) == 0 {
		return ErrEmptyQuestionBank
	}
	seen := make(map[string]bool, len(questions))
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return err
		}
		if seen[questions[i].ID] {
			return fmt.Errorf("question %q: duplicate id", questions[i].ID)
		}
		seen[questions[i].ID] = true
	}
	return nil
}
