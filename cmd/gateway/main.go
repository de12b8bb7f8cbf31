package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/coursedeck/coursedeck-lms/internal/api/http"
	"github.com/coursedeck/coursedeck-lms/internal/auth"
	"github.com/coursedeck/coursedeck-lms/internal/config"
	"github.com/coursedeck/coursedeck-lms/internal/db"
	"github.com/coursedeck/coursedeck-lms/internal/grading"
	"github.com/coursedeck/coursedeck-lms/internal/lms"
	"github.com/coursedeck/coursedeck-lms/internal/rbac"
	"github.com/coursedeck/coursedeck-lms/internal/submission"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	users := lms.NewUserStore(dbh)
	catalog := lms.NewCatalogStore(dbh)
	courses := lms.NewCourseStore(dbh)
	quizzes := lms.NewQuizStore(dbh)
	submissions := submission.NewSQLStore(dbh, grading.NewResolver())

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", auth.RegisterHandler(users))
	r.Post("/auth/login", auth.LoginHandler(authSvc, users))

	// Protected API (JWT -> subject+role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh))

		pr.Get("/me", api.MeHandler(users))

		// Users (admin)
		pr.With(rbac.Require("user:manage")).Get("/users", api.ListUsersHandler(users))
		pr.With(rbac.Require("user:manage")).Post("/users/{userID}/role", api.UpdateUserRoleHandler(users))
		pr.With(rbac.Require("user:manage")).Delete("/users/{userID}", api.DeleteUserHandler(users))

		// Categories
		pr.With(rbac.Require("category:manage")).Post("/categories", api.CreateCategoryHandler(catalog))
		pr.Get("/categories", api.ListCategoriesHandler(catalog))
		pr.With(rbac.Require("category:manage")).Put("/categories/{categoryID}", api.UpdateCategoryHandler(catalog))
		pr.With(rbac.Require("category:manage")).Delete("/categories/{categoryID}", api.DeleteCategoryHandler(catalog))

		// Tags
		pr.With(rbac.Require("tag:manage")).Post("/tags", api.CreateTagHandler(catalog))
		pr.Get("/tags", api.ListTagsHandler(catalog))
		pr.With(rbac.Require("tag:manage")).Put("/tags/{tagID}", api.UpdateTagHandler(catalog))
		pr.With(rbac.Require("tag:manage")).Delete("/tags/{tagID}", api.DeleteTagHandler(catalog))

		// Courses
		pr.With(rbac.Require("course:view")).Get("/courses", api.ListCoursesHandler(courses))
		pr.With(rbac.Require("course:view")).Get("/courses/{courseID}", api.GetCourseHandler(courses))
		pr.With(rbac.Require("course:manage")).Post("/courses", api.CreateCourseHandler(courses))
		pr.With(rbac.Require("course:manage")).Put("/courses/{courseID}", api.UpdateCourseHandler(courses))
		pr.With(rbac.Require("course:manage")).Delete("/courses/{courseID}", api.DeleteCourseHandler(courses))
		pr.With(rbac.Require("course:manage")).Post("/courses/{courseID}/assign-tags", api.AssignCourseTagsHandler(courses))
		pr.With(rbac.Require("course:manage")).Post("/courses/{courseID}/assign-teachers", api.AssignTeachersHandler(courses))
		pr.With(rbac.Require("course:manage")).Post("/courses/{courseID}/assign-students", api.AssignStudentsHandler(courses))
		pr.With(rbac.Require("course:view")).Get("/courses/{courseID}/teachers", api.ListCourseTeachersHandler(courses))
		pr.With(rbac.Require("course:view")).Get("/courses/{courseID}/students", api.ListCourseStudentsHandler(courses))

		// Lessons
		pr.With(rbac.Require("lesson:view")).Get("/courses/{courseID}/lessons", api.ListLessonsHandler(courses))
		pr.With(rbac.Require("lesson:manage")).Post("/courses/{courseID}/lessons", api.CreateLessonHandler(courses))
		pr.With(rbac.Require("lesson:manage")).Put("/lessons/{lessonID}", api.UpdateLessonHandler(courses))
		pr.With(rbac.Require("lesson:manage")).Delete("/lessons/{lessonID}", api.DeleteLessonHandler(courses))
		pr.With(rbac.Require("lesson:complete")).Post("/lessons/{lessonID}/complete", api.CompleteLessonHandler(courses))
		pr.With(rbac.Require("lesson:complete")).Post("/lessons/{lessonID}/uncomplete", api.UncompleteLessonHandler(courses))

		// Quizzes
		pr.With(rbac.Require("quiz:view")).Get("/courses/{courseID}/quizzes", api.ListQuizzesHandler(quizzes))
		pr.With(rbac.Require("quiz:manage")).Post("/courses/{courseID}/quizzes", api.CreateQuizHandler(quizzes))
		pr.With(rbac.Require("quiz:manage")).Put("/quizzes/{quizID}", api.UpdateQuizHandler(quizzes))
		pr.With(rbac.Require("quiz:manage")).Delete("/quizzes/{quizID}", api.DeleteQuizHandler(quizzes))

		// Questions
		pr.With(rbac.Require("question:manage")).Get("/quizzes/{quizID}/questions", api.ListQuestionsHandler(quizzes))
		pr.With(rbac.Require("question:manage")).Post("/quizzes/{quizID}/questions", api.CreateQuestionHandler(quizzes))
		pr.With(rbac.Require("question:manage")).Put("/questions/{questionID}", api.UpdateQuestionHandler(quizzes))
		pr.With(rbac.Require("question:manage")).Delete("/questions/{questionID}", api.DeleteQuestionHandler(quizzes))

		// Choices
		pr.With(rbac.Require("choice:manage")).Get("/questions/{questionID}/choices", api.ListChoicesHandler(quizzes))
		pr.With(rbac.Require("choice:manage")).Post("/questions/{questionID}/choices", api.CreateChoiceHandler(quizzes))
		pr.With(rbac.Require("choice:manage")).Put("/choices/{choiceID}", api.UpdateChoiceHandler(quizzes))
		pr.With(rbac.Require("choice:manage")).Delete("/choices/{choiceID}", api.DeleteChoiceHandler(quizzes))

		// Submissions (the grading engine)
		pr.With(rbac.Require("submission:create")).Post("/quizzes/{quizID}/submit", api.SubmitQuizHandler(submissions))
		pr.With(rbac.Require("submission:view-own")).Get("/quizzes/{quizID}/submissions", api.ListQuizSubmissionsHandler(submissions))
		pr.With(rbac.Require("quiz:view-analytics")).Get("/quizzes/{quizID}/submissions/summary", api.QuizSummaryHandler(submissions))
		pr.With(rbac.Require("submission:view-own")).Get("/quiz-submissions", api.ListMySubmissionsHandler(submissions))
		pr.With(rbac.Require("submission:view-own")).Get("/quiz-submissions/{submissionID}", api.GetSubmissionHandler(submissions))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
