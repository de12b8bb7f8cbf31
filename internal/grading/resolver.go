package grading

import (
	"strings"

	"github.com/coursedeck/coursedeck-lms/internal/lms"
)

// Verdict is the outcome of evaluating one answer. Known is false when no
// deterministic correctness exists for the pair (unresolvable choice
// reference, or an essay question without a canonical answer); such answers
// persist as NULL is_correct and never count toward the score numerator.
type Verdict struct {
	Known   bool
	Correct bool
}

// Strategy evaluates one answer against one question. Implementations are
// pure: the same (question, answer) pair always yields the same verdict.
type Strategy interface {
	Evaluate(q lms.Question, a Answer) (Verdict, error)
}

// Answer is the learner's raw input for a single question. ChoiceID is
// authoritative for multiple choice; Text is the essay body, and doubles as
// a legacy fallback matched against choice_text when ChoiceID is empty.
type Answer struct {
	ChoiceID string
	Text     string
}

// Resolver routes by question type to the matching Strategy. The strategy
// set is closed: a type without a strategy fails the whole submission.
type Resolver struct {
	strategies map[string]Strategy
}

func NewResolver() *Resolver {
	return &Resolver{
		strategies: map[string]Strategy{
			lms.QuestionTypeMultipleChoice: multipleChoiceStrategy{},
			lms.QuestionTypeEssay:          essayStrategy{},
		},
	}
}

func (r *Resolver) Evaluate(q lms.Question, a Answer) (Verdict, error) {
	s, ok := r.strategies[q.Type]
	if !ok {
		return Verdict{}, &lms.UnsupportedQuestionTypeError{Type: q.Type}
	}
	return s.Evaluate(q, a)
}

type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) Evaluate(q lms.Question, a Answer) (Verdict, error) {
	if a.ChoiceID != "" {
		for _, c := range q.Choices {
			if c.ID == a.ChoiceID {
				return Verdict{Known: true, Correct: c.IsCorrect}, nil
			}
		}
		return Verdict{}, nil
	}
	if a.Text != "" {
		for _, c := range q.Choices {
			if c.ChoiceText == a.Text {
				return Verdict{Known: true, Correct: c.IsCorrect}, nil
			}
		}
	}
	return Verdict{}, nil
}

type essayStrategy struct{}

func (essayStrategy) Evaluate(q lms.Question, a Answer) (Verdict, error) {
	if strings.TrimSpace(q.Answer) == "" {
		// no canonical answer: correctness is indeterminate
		return Verdict{}, nil
	}
	return Verdict{Known: true, Correct: normalize(q.Answer) == normalize(a.Text)}, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
