// Command adduser creates a back-office account.
//
//	go run ./cmd/adduser -email admin@example.com -password secret -name Admin -role admin
package main

import (
	"context"
	"flag"
	"strings"

	"academy/internal/app/ds"
	"academy/internal/app/dsn"
	"academy/internal/app/repository"
	"academy/internal/app/role"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "plain password, hashed with bcrypt")
	name := flag.String("name", "", "display name")
	roleName := flag.String("role", "admin", "admin or staff")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		logrus.Fatal("email and password are required")
	}

	userRole := role.Admin
	switch *roleName {
	case "admin":
	case "staff":
		userRole = role.Staff
	default:
		logrus.Fatalf("unknown role %q", *roleName)
	}

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Check your .env file")
	}
	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()
	normalized := strings.ToLower(strings.TrimSpace(*email))

	exists, err := repo.UserExistsByEmail(ctx, normalized)
	if err != nil {
		logrus.Fatal(err)
	}
	if exists {
		logrus.Fatalf("user %s already exists", normalized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatal(err)
	}

	user := &ds.User{Email: normalized, Password: string(hash), Name: *name, Role: userRole}
	if err := repo.CreateUser(ctx, user); err != nil {
		logrus.Fatal(err)
	}
	logrus.Infof("created %s user %s (id %d)", userRole, user.Email, user.ID)
}
