package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"linkvault/models"
	"linkvault/pkg/access"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_admin <username> <email> <password>")
		os.Exit(2)
	}
	username := strings.ToLower(strings.TrimSpace(os.Args[1]))
	email := strings.ToLower(strings.TrimSpace(os.Args[2]))
	password := os.Args[3]

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var role models.Role
	if err := db.Where(models.Role{Name: access.RoleAdmin}).
		Attrs(models.Role{Description: "full access"}).
		FirstOrCreate(&role).Error; err != nil {
		log.Fatalf("failed to ensure admin role: %v", err)
	}

	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", username, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hpw,
		Enabled:        true,
		Roles:          []models.Role{role},
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created admin %s id=%d\n", username, user.ID)
}
