package lms

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeEssay          = "essay"
)

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"` // student|teacher|admin
	CreatedAt    int64  `json:"created_at,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
	CreatedAt   int64  `json:"created_at,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

type Lesson struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Position  int    `json:"position"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

type Quiz struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

// Question is a single gradable prompt. Answer holds the canonical text for
// essay grading and stays empty for multiple choice.
type Question struct {
	ID           string   `json:"id"`
	QuizID       string   `json:"quiz_id"`
	Type         string   `json:"type"`
	QuestionText string   `json:"question_text"`
	Answer       string   `json:"answer,omitempty"`
	CreatedBy    string   `json:"created_by,omitempty"`
	CreatedAt    int64    `json:"created_at,omitempty"`
	Choices      []Choice `json:"choices,omitempty"`
}

type Choice struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	ChoiceText string `json:"choice_text"`
	IsCorrect  bool   `json:"is_correct"`
}
