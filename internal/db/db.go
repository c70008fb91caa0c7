package db

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"knowmark/internal/class"
	"knowmark/internal/config"
	"knowmark/internal/quiz"
	"knowmark/internal/user"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	// The unique indexes on users.email and users.username are the
	// backstop for concurrent signups; migration must not be skipped.
	if err := db.AutoMigrate(&user.User{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&quiz.Quiz{}, &class.Class{}, &class.Participant{}); err != nil {
		return err
	}

	DB = db
	log.Info().Msg("database connected and migrated")
	return nil
}
