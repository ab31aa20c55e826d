// Package main provides a tool to seed the database with sample content.
//
// This creates an admin account and a handful of books so the API has
// something to serve during development.
//
// Usage:
//
//	DATA_PATH=~/inkwell go run ./cmd/seed
//	DATA_PATH=~/inkwell go run ./cmd/seed --admin-email you@example.com
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

var (
	adminEmail    = flag.String("admin-email", "admin@inkwell.local", "Admin account email")
	adminPassword = flag.String("admin-password", "inkwell-dev", "Admin account password")
)

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/inkwell")
	}

	dbPath := filepath.Join(dataPath, "inkwell.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if err := seedAdmin(ctx, s); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if err := seedBooks(ctx, s); err != nil {
		log.Fatalf("Failed to seed books: %v", err)
	}

	fmt.Println("Done.")
}

func seedAdmin(ctx context.Context, s *sqlite.Store) error {
	if _, err := s.GetUserByEmail(ctx, *adminEmail); err == nil {
		fmt.Printf("Admin %s already exists, skipping\n", *adminEmail)
		return nil
	}

	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		return err
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Entity:       domain.Entity{ID: userID},
		Email:        *adminEmail,
		PasswordHash: hash,
		DisplayName:  "Inkwell Admin",
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	admin.InitTimestamps()

	if err := s.CreateUser(ctx, admin); err != nil {
		return err
	}
	fmt.Printf("Created admin %s (password: %s)\n", *adminEmail, *adminPassword)
	return nil
}

func seedBooks(ctx context.Context, s *sqlite.Store) error {
	samples := []struct {
		title   string
		author  string
		genre   string
		status  domain.BookStatus
		titles  []string
	}{
		{
			title:  "The Lighthouse Letters",
			author: "Mara Voss",
			genre:  "fiction",
			status: domain.BookStatusPublished,
			titles: []string{"Arrival", "The First Letter", "Storm Season"},
		},
		{
			title:  "Salt and Cedar",
			author: "Jonah Reyes",
			genre:  "mystery",
			status: domain.BookStatusPublished,
			titles: []string{"The Harbor", "Low Tide"},
		},
		{
			title:  "Notes Toward a Third Novel",
			author: "Mara Voss",
			genre:  "fiction",
			status: domain.BookStatusDraft,
			titles: []string{"Fragments"},
		},
	}

	for _, sample := range samples {
		bookID, err := id.Generate(id.PrefixBook)
		if err != nil {
			return err
		}

		book := &domain.Book{
			Entity: domain.Entity{ID: bookID},
			Title:  sample.title,
			Author: sample.author,
			Genre:  sample.genre,
			Status: domain.BookStatusDraft,
		}
		book.InitTimestamps()
		if sample.status == domain.BookStatusPublished {
			book.Publish(time.Now())
		}

		for pos, title := range sample.titles {
			chapterID, err := id.Generate(id.PrefixChapter)
			if err != nil {
				return err
			}
			book.Chapters = append(book.Chapters, domain.Chapter{
				ID:       chapterID,
				BookID:   bookID,
				Title:    title,
				Content:  fmt.Sprintf("Placeholder text for %q.", title),
				Position: pos,
			})
		}

		if err := s.CreateBook(ctx, book); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				continue
			}
			return err
		}
		fmt.Printf("Created %s (%s, %d chapters)\n", sample.title, sample.status, len(book.Chapters))
	}

	return nil
}
