package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"quizroom/internal/model"
)

type questionFile struct {
	Questions []model.Question `yaml:"questions"`
}

// FileQuestionSource reads the bank from a YAML file.
type FileQuestionSource struct {
	path string
}

func NewFileQuestionSource(path string) *FileQuestionSource {
	return &FileQuestionSource{path: path}
}

func (s *FileQuestionSource) GetAll(_ context.Context) ([]model.Question, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeQuestions(f)
}

// DecodeQuestions parses a YAML question document. Unknown keys are rejected.
func DecodeQuestions(r io.Reader) ([]model.Question, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc questionFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, model.ErrEmptyQuestionBank
		}
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return doc.Questions, nil
}
