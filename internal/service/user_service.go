package service

import (
	"context"
	"log"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/realtime"
	"github.com/knagato/messenger-backend/internal/repository"
)

type UserService interface {
	List(ctx context.Context, currentEmail string) []model.User
	UpdateProfile(ctx context.Context, caller *model.User, name, image *string) (*model.User, error)
	Register(ctx context.Context, email string, name, image *string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
	bus   realtime.Broadcaster
}

func NewUserService(users repository.UserRepository, bus realtime.Broadcaster) UserService {
	return &userService{users: users, bus: bus}
}

// List backs the people directory; failures degrade to empty.
func (s *userService) List(ctx context.Context, currentEmail string) []model.User {
	list, err := s.users.ListExcept(ctx, currentEmail)
	if err != nil {
		log.Printf("[USERS_ERROR] list: %v", err)
		return []model.User{}
	}
	return list
}

func (s *userService) UpdateProfile(ctx context.Context, caller *model.User, name, image *string) (*model.User, error) {
	updated, err := s.users.UpdateProfile(ctx, caller.ID, name, image)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.bus, realtime.UsersChannel, realtime.EventUserUpdate, updated)
	return updated, nil
}

// Register ensures a User row exists for a freshly authenticated identity and
// announces new users on the shared directory channel.
func (s *userService) Register(ctx context.Context, email string, name, image *string) (*model.User, error) {
	u := &model.User{Email: email, Name: name, Image: image}
	created, err := s.users.EnsureByEmail(ctx, u)
	if err != nil {
		return nil, err
	}
	if created {
		publish(ctx, s.bus, realtime.UsersChannel, realtime.EventUserNew, u)
	}
	return u, nil
}
