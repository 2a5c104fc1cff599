package database

import (
	"fmt"
	"log"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logMode := logger.Warn
	if mode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lesson{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.Enrollment{},
		&model.LessonCompletion{},
		&model.QuizSubmission{},
		&model.ProjectSubmission{},
		&model.Certificate{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}
