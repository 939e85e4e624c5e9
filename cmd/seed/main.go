package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/knagato/messenger-backend/internal/config"
	"github.com/knagato/messenger-backend/internal/db"
	"github.com/knagato/messenger-backend/internal/model"
)

type seedUser struct {
	Name  string
	Email string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(
		&model.User{},
		&model.Conversation{},
		&model.UserConversation{},
		&model.Message{},
		&model.UserSeenMessage{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	canSeed, err := shouldSeed(ctx, gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("users already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	seedUsers := []seedUser{
		{Name: "Alice Demo", Email: "alice@example.com"},
		{Name: "Bob Demo", Email: "bob@example.com"},
		{Name: "Carol Demo", Email: "carol@example.com"},
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]model.User, 0, len(seedUsers))
		for _, su := range seedUsers {
			name := su.Name
			u := model.User{Name: &name, Email: su.Email}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("create user %s: %w", su.Email, err)
			}
			users = append(users, u)
		}

		cv := model.Conversation{LastMessageAt: time.Now()}
		if err := tx.Create(&cv).Error; err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
		for _, u := range users[:2] {
			uc := model.UserConversation{UserID: u.ID, ConversationID: cv.ID}
			if err := tx.Create(&uc).Error; err != nil {
				return fmt.Errorf("create membership: %w", err)
			}
		}

		body := "Welcome to the demo conversation!"
		msg := model.Message{ConversationID: cv.ID, SenderID: users[0].ID, Body: &body}
		if err := tx.Create(&msg).Error; err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		seen := model.UserSeenMessage{UserID: users[0].ID, MessageID: msg.ID}
		if err := tx.Create(&seen).Error; err != nil {
			return fmt.Errorf("create seen row: %w", err)
		}

		log.Printf("seeded %d users and 1 conversation", len(users))
		return nil
	})
}

func shouldSeed(ctx context.Context, gdb *gorm.DB) (bool, error) {
	if os.Getenv("FORCE_SEED") == "true" {
		return true, nil
	}
	var n int64
	if err := gdb.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n == 0, nil
}
