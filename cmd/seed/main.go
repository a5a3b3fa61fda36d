// Seeds the database with an admin account and two demo players.
package main

import (
	"ChipBook/config"
	constants "ChipBook/constants/ledger"
	models "ChipBook/models/postgres"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func seedUser(db *gorm.DB, username, email, fullName, password string, role models.Role) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		log.WithError(err).Fatal("failed to hash password")
	}
	user := models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	err = db.Where(models.User{Username: username}).FirstOrCreate(&user).Error
	if err != nil {
		log.WithError(err).WithField("username", username).Fatal("failed to seed user")
	}
	log.WithField("username", username).Info("seeded user")
}

func main() {
	godotenv.Load()
	log.Info("starting seed...")

	db, err := config.ConnectGORM()
	if err != nil {
		log.WithError(err).Fatal("error connecting to PostgreSQL")
	}

	if err := config.MigrateDatabase(db); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	seedUser(db, "admin", "admin@chipbook.local", "Admin User", "admin123", models.RoleAdmin)
	seedUser(db, "player1", "player1@example.com", "John Doe", "player123", models.RolePlayer)
	seedUser(db, "player2", "player2@example.com", "Jane Smith", "player123", models.RolePlayer)

	log.Info("seed completed")
}
