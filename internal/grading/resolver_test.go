package grading

import (
	"errors"
	"testing"

	"github.com/coursedeck/coursedeck-lms/internal/lms"
)

func mcQuestion() lms.Question {
	return lms.Question{
		ID:   "q1",
		Type: lms.QuestionTypeMultipleChoice,
		Choices: []lms.Choice{
			{ID: "c1", ChoiceText: "Correct Answer", IsCorrect: true},
			{ID: "c2", ChoiceText: "Wrong Answer", IsCorrect: false},
		},
	}
}

func TestMultipleChoiceByID(t *testing.T) {
	r := NewResolver()
	q := mcQuestion()

	v, err := r.Evaluate(q, Answer{ChoiceID: "c1"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Known || !v.Correct {
		t.Fatalf("correct choice: got %+v", v)
	}

	v, err = r.Evaluate(q, Answer{ChoiceID: "c2"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Known || v.Correct {
		t.Fatalf("wrong choice: got %+v", v)
	}
}

func TestMultipleChoiceUnresolvable(t *testing.T) {
	r := NewResolver()
	v, err := r.Evaluate(mcQuestion(), Answer{ChoiceID: "nope"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v.Known {
		t.Fatalf("unknown choice id must be indeterminate, got %+v", v)
	}
}

func TestMultipleChoiceTextFallback(t *testing.T) {
	r := NewResolver()
	v, err := r.Evaluate(mcQuestion(), Answer{Text: "Correct Answer"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Known || !v.Correct {
		t.Fatalf("text fallback: got %+v", v)
	}
}

func TestEssayNormalization(t *testing.T) {
	r := NewResolver()
	q := lms.Question{Type: lms.QuestionTypeEssay, Answer: " Paris "}

	v, err := r.Evaluate(q, Answer{Text: "paris"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Known || !v.Correct {
		t.Fatalf("trimmed, case-folded match expected, got %+v", v)
	}

	v, _ = r.Evaluate(q, Answer{Text: "london"})
	if !v.Known || v.Correct {
		t.Fatalf("mismatch must be known-incorrect, got %+v", v)
	}
}

func TestEssayWithoutCanonicalAnswer(t *testing.T) {
	r := NewResolver()
	v, err := r.Evaluate(lms.Question{Type: lms.QuestionTypeEssay}, Answer{Text: "anything"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v.Known {
		t.Fatalf("ungraded essay must be indeterminate, got %+v", v)
	}
}

func TestUnsupportedType(t *testing.T) {
	r := NewResolver()
	_, err := r.Evaluate(lms.Question{Type: "matching"}, Answer{})
	var uq *lms.UnsupportedQuestionTypeError
	if !errors.As(err, &uq) {
		t.Fatalf("want UnsupportedQuestionTypeError, got %v", err)
	}
	if uq.Type != "matching" {
		t.Fatalf("error should carry the type, got %q", uq.Type)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	r := NewResolver()
	q := mcQuestion()
	a := Answer{ChoiceID: "c1"}
	first, err := r.Evaluate(q, a)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	for i := 0; i < 5; i++ {
		v, err := r.Evaluate(q, a)
		if err != nil {
			t.Fatalf("evaluate #%d: %v", i, err)
		}
		if v != first {
			t.Fatalf("verdict changed between calls: %+v vs %+v", first, v)
		}
	}
}
