package lms

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type CourseStore struct {
	db *sql.DB
}

func NewCourseStore(db *sql.DB) *CourseStore { return &CourseStore{db: db} }

func (s *CourseStore) Create(ctx context.Context, c Course) (Course, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id,title,description,category_id,created_by,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Title, c.Description, nullStr(c.CategoryID), c.CreatedBy, c.CreatedAt)
	if err != nil {
		return Course{}, err
	}
	return c, nil
}

func (s *CourseStore) Get(ctx context.Context, id string) (Course, error) {
	var c Course
	var cat sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,category_id,created_by,created_at FROM courses WHERE id=$1`, id).
		Scan(&c.ID, &c.Title, &c.Description, &cat, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, NotFoundf("course")
	}
	if err != nil {
		return Course{}, err
	}
	c.CategoryID = cat.String
	tags, err := s.tagsFor(ctx, id)
	if err != nil {
		return Course{}, err
	}
	c.Tags = tags
	return c, nil
}

func (s *CourseStore) List(ctx context.Context, limit, offset int) ([]Course, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,description,category_id,created_by,created_at FROM courses
		 ORDER BY created_at DESC LIMIT `+itoa(limit)+` OFFSET `+itoa(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Course{}
	for rows.Next() {
		var c Course
		var cat sql.NullString
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &cat, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CategoryID = cat.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *CourseStore) Update(ctx context.Context, c Course) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET title=$1, description=$2, category_id=$3 WHERE id=$4`,
		c.Title, c.Description, nullStr(c.CategoryID), c.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "course")
}

func (s *CourseStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "course")
}

// AssignTags replaces the course's tag set.
func (s *CourseStore) AssignTags(ctx context.Context, courseID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM course_tags WHERE course_id=$1`, courseID); err != nil {
		return err
	}
	for _, tid := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO course_tags (course_id,tag_id) VALUES ($1,$2)`, courseID, tid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *CourseStore) Enroll(ctx context.Context, courseID, userID, role string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO course_enrollments (course_id,user_id,role) VALUES ($1,$2,$3)
		 ON CONFLICT (course_id,user_id) DO UPDATE SET role=EXCLUDED.role`,
		courseID, userID, role)
	return err
}

func (s *CourseStore) ListEnrolled(ctx context.Context, courseID, role string) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id,u.username,u.role,u.created_at
		 FROM course_enrollments e JOIN users u ON u.id=e.user_id
		 WHERE e.course_id=$1 AND e.role=$2 ORDER BY u.username`, courseID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *CourseStore) tagsFor(ctx context.Context, courseID string) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id,t.name FROM course_tags ct JOIN tags t ON t.id=ct.tag_id
		 WHERE ct.course_id=$1 ORDER BY t.name`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- lessons ---

func (s *CourseStore) CreateLesson(ctx context.Context, l Lesson) (Lesson, error) {
	if err := s.mustExist(ctx, "courses", l.CourseID, "course"); err != nil {
		return Lesson{}, err
	}
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lessons (id,course_id,title,content,position,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		l.ID, l.CourseID, l.Title, l.Content, l.Position, l.CreatedAt)
	if err != nil {
		return Lesson{}, err
	}
	return l, nil
}

func (s *CourseStore) ListLessons(ctx context.Context, courseID string) ([]Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,course_id,title,content,position,created_at FROM lessons
		 WHERE course_id=$1 ORDER BY position, created_at`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Lesson{}
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Content, &l.Position, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *CourseStore) UpdateLesson(ctx context.Context, l Lesson) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE lessons SET title=$1, content=$2, position=$3 WHERE id=$4`,
		l.Title, l.Content, l.Position, l.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "lesson")
}

func (s *CourseStore) DeleteLesson(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "lesson")
}

func (s *CourseStore) MarkLessonCompleted(ctx context.Context, lessonID, userID string) error {
	if err := s.mustExist(ctx, "lessons", lessonID, "lesson"); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lesson_completions (lesson_id,user_id,completed_at) VALUES ($1,$2,$3)
		 ON CONFLICT (lesson_id,user_id) DO NOTHING`,
		lessonID, userID, time.Now().Unix())
	return err
}

func (s *CourseStore) UnmarkLessonCompleted(ctx context.Context, lessonID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM lesson_completions WHERE lesson_id=$1 AND user_id=$2`, lessonID, userID)
	return err
}

func (s *CourseStore) mustExist(ctx context.Context, table, id, entity string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id=$1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return NotFoundf(entity)
	}
	return err
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
