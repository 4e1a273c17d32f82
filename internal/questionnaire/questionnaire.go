package questionnaire

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

//go:embed schema.yaml
var schemaYAML []byte

type QuestionType string

const (
	TypeText     QuestionType = "text"
	TypeTextarea QuestionType = "textarea"
	TypeNumber   QuestionType = "number"
	TypeSelect   QuestionType = "select"
)

const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
)

type Question struct {
	ID       string       `yaml:"id" json:"id"`
	Label    string       `yaml:"label" json:"label"`
	Type     QuestionType `yaml:"type" json:"type"`
	Options  []string     `yaml:"options,omitempty" json:"options,omitempty"`
	Required bool         `yaml:"required,omitempty" json:"required,omitempty"`
}

type Section struct {
	ID        string     `yaml:"id" json:"id"`
	Title     string     `yaml:"title" json:"title"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// Template is the sectioned questionnaire presented to companies.
type Template struct {
	Sections []Section `yaml:"sections" json:"sections"`

	index map[string]Question
}

// Default parses the embedded questionnaire schema.
func Default() (*Template, error) {
	return Parse(schemaYAML)
}

func Parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse questionnaire schema: %w", err)
	}
	if len(t.Sections) == 0 {
		return nil, errors.New("questionnaire schema has no sections")
	}

	t.index = make(map[string]Question)
	for _, s := range t.Sections {
		for _, q := range s.Questions {
			if q.ID == "" {
				return nil, fmt.Errorf("section %q has a question without id", s.ID)
			}
			if _, dup := t.index[q.ID]; dup {
				return nil, fmt.Errorf("duplicate question id %q", q.ID)
			}
			switch q.Type {
			case TypeText, TypeTextarea, TypeNumber:
			case TypeSelect:
				if len(q.Options) == 0 {
					return nil, fmt.Errorf("select question %q has no options", q.ID)
				}
			default:
				return nil, fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
			}
			t.index[q.ID] = q
		}
	}
	return &t, nil
}

func (t *Template) Question(id string) (Question, bool) {
	q, ok := t.index[id]
	return q, ok
}

// ValidationError lists the answers that could not be accepted, keyed by question id.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid answers: " + strings.Join(keys, ", ")
}

// Submission is a cleaned questionnaire ready to be stored.
type Submission struct {
	Answers     map[string]any
	IgnoredKeys []string
	Status      string
}

// Normalize keeps only known question ids, parses number answers, checks
// select answers against their options and drops blank values.
func (t *Template) Normalize(raw map[string]any) (*Submission, error) {
	sub := &Submission{Answers: make(map[string]any, len(raw)), IgnoredKeys: []string{}}
	invalid := make(map[string]string)

	for key, value := range raw {
		q, ok := t.index[key]
		if !ok {
			sub.IgnoredKeys = append(sub.IgnoredKeys, key)
			continue
		}
		if value == nil {
			continue
		}

		switch q.Type {
		case TypeNumber:
			n, err := utils.ParseNumber(value)
			if errors.Is(err, utils.ErrEmptyNumber) {
				continue
			}
			if err != nil {
				invalid[key] = "must be a number"
				continue
			}
			sub.Answers[key] = n
		case TypeSelect:
			s, ok := value.(string)
			if !ok {
				invalid[key] = "must be one of: " + strings.Join(q.Options, ", ")
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			option, ok := matchOption(q.Options, s)
			if !ok {
				invalid[key] = "must be one of: " + strings.Join(q.Options, ", ")
				continue
			}
			sub.Answers[key] = option
		default:
			s := strings.TrimSpace(fmt.Sprint(value))
			if s == "" {
				continue
			}
			sub.Answers[key] = s
		}
	}

	if len(invalid) > 0 {
		return nil, &ValidationError{Fields: invalid}
	}

	sort.Strings(sub.IgnoredKeys)
	sub.Status = t.Status(sub.Answers)
	return sub, nil
}

// Status is completed once every required question has an answer.
func (t *Template) Status(answers map[string]any) string {
	for _, s := range t.Sections {
		for _, q := range s.Questions {
			if !q.Required {
				continue
			}
			if _, ok := answers[q.ID]; !ok {
				return StatusDraft
			}
		}
	}
	return StatusCompleted
}

func matchOption(options []string, value string) (string, bool) {
	for _, o := range options {
		if o == value {
			return o, true
		}
	}
	for _, o := range options {
		if strings.EqualFold(o, value) {
			return o, true
		}
	}
	return "", false
}
