// Seeds a demo course with the full lesson mix (video, reading, CAT quiz,
// project, final exam) plus one account per role, for local development.
//
// Usage: go run scripts/seed_demo_course.go

package main

import (
	"log"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/pkg/database"
	"coursehub_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	users := repository.NewUserRepository(db)
	auth := service.NewAuthService(users, cfg)

	for _, acc := range []struct {
		name  string
		email string
		role  model.UserRole
	}{
		{"Demo Admin", "admin@coursehub.local", model.Admin},
		{"Demo Reviewer", "reviewer@coursehub.local", model.Reviewer},
		{"Demo Student", "student@coursehub.local", model.Student},
	} {
		user := &model.User{
			Name:     acc.name,
			Email:    acc.email,
			Password: "password123",
			Role:     acc.role,
		}
		if err := auth.Register(user); err != nil {
			log.Printf("skip %s: %v", acc.email, err)
		}
	}

	admin, err := users.FindByEmail("admin@coursehub.local")
	if err != nil {
		log.Fatalf("admin account missing: %v", err)
	}

	lessons := repository.NewLessonRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	submissions := repository.NewSubmissionRepository(db)
	progress := service.NewProgressService(lessons, enrollments, submissions)
	courses := service.NewCourseService(repository.NewCourseRepository(db), lessons, enrollments, progress)

	course, err := courses.CreateCourse(admin.ID, service.CourseCreateRequest{
		Title:       "Go for Backend Engineers",
		Description: "From zero to a deployed HTTP service.",
	})
	if err != nil {
		log.Fatalf("failed to create course: %v", err)
	}

	two := 2
	zero := 0
	one := 1

	lessonReqs := []service.LessonCreateRequest{
		{Title: "Welcome", ContentType: model.ContentVideo, IsPreview: true},
		{Title: "Syntax Basics", ContentType: model.ContentText, Body: "Variables, types, and control flow."},
		{
			Title:       "Checkpoint: Basics",
			ContentType: model.ContentQuiz,
			Quiz: &service.QuizDefinitionRequest{
				AssessmentType: model.AssessmentCAT,
				Questions: []service.QuizQuestionRequest{
					{QuestionType: model.QuestionMultipleChoice, Prompt: "Which keyword declares a variable?", Options: []string{"let", "var", "def"}, CorrectAnswerIndex: &one},
					{QuestionType: model.QuestionMultipleChoice, Prompt: "Zero value of an int?", Options: []string{"0", "nil", "undefined"}, CorrectAnswerIndex: &zero},
				},
			},
		},
		{Title: "Build a CLI", ContentType: model.ContentProject, ProjectBrief: "Ship a small command line tool with flags and tests."},
		{
			Title:       "Final Exam",
			ContentType: model.ContentQuiz,
			Quiz: &service.QuizDefinitionRequest{
				AssessmentType: model.AssessmentFinalExam,
				Questions: []service.QuizQuestionRequest{
					{QuestionType: model.QuestionMultipleChoice, Prompt: "Which package serves HTTP?", Options: []string{"net/http", "os", "fmt"}, CorrectAnswerIndex: &zero},
					{QuestionType: model.QuestionMultipleChoice, Prompt: "How many return values can a function have?", Options: []string{"one", "two", "any number"}, CorrectAnswerIndex: &two},
					{QuestionType: model.QuestionFreeText, Prompt: "Explain when you would choose a buffered channel."},
				},
			},
		},
	}

	for _, req := range lessonReqs {
		if _, err := courses.AddLesson(course.ID, req); err != nil {
			log.Fatalf("failed to add lesson %q: %v", req.Title, err)
		}
	}

	if err := courses.PublishCourse(course.ID); err != nil {
		log.Fatalf("failed to publish: %v", err)
	}

	log.Printf("seeded course %d with %d lessons", course.ID, len(lessonReqs))
}
