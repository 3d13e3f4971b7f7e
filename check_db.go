//go:build ignore

// check_db prints the package catalog with the number of enrolled students.
//
//	go run check_db.go
package main

import (
	"context"
	"fmt"
	"log"

	"academy/internal/app/dsn"
	"academy/internal/app/repository"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}
	repo, err := repository.New(dsnStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer repo.Close()

	ctx := context.Background()
	packages, err := repo.ListPackages(ctx, true)
	if err != nil {
		log.Fatal("Failed to get packages:", err)
	}

	fmt.Println("Packages in database:")
	for _, p := range packages {
		count, err := repo.CountStudentsByPackage(ctx, p.Slug)
		if err != nil {
			log.Fatal("Failed to count students:", err)
		}
		fmt.Printf("Slug: %s, Name: %s, Active: %t, Installments: %d, Students: %d\n",
			p.Slug, p.Name, p.IsActive, len(p.Installments), count)
	}
}
