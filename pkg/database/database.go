package database

import (
	"fmt"
	"log"
	"secaware_backend/internal/config"
	"secaware_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate creates the schema and seeds the initial admin account. It is also
// used by the test suite against an in-memory database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Course{},
		&model.CoursePage{},
		&model.Test{},
		&model.Question{},
		&model.Answer{},
		&model.UserTest{},
		&model.PhishingEmail{},
		&model.Activity{},
	)
	if err != nil {
		return err
	}

	// A fresh install needs one account able to log in and create the rest.
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &model.User{
			Username: "admin",
			Email:    "admin@example.com",
			Password: string(hashed),
			Role:     model.RoleAdmin,
		}
		if err := db.Create(admin).Error; err != nil {
			return err
		}
		log.Println("Seeded default admin account (admin@example.com / changeme)")
	}

	return nil
}
