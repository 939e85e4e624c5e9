package session

import (
	"context"
	"errors"
	"log"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/repository"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Placeholder identity returned while prerendering, so static generation
// never touches the store.
const (
	PrerenderEmail = "build-user@example.com"
	PrerenderName  = "Build User"
)

// Resolver maps a verified credential (the token's email claim) to the
// current user row. It fails closed: any resolution problem outside the
// prerender path yields ErrUnauthenticated, never a default identity.
type Resolver struct {
	users     repository.UserRepository
	prerender bool
}

func NewResolver(users repository.UserRepository, prerender bool) *Resolver {
	return &Resolver{users: users, prerender: prerender}
}

func (r *Resolver) Current(ctx context.Context, email string) (*model.User, error) {
	if r.prerender {
		name := PrerenderName
		return &model.User{Name: &name, Email: PrerenderEmail}, nil
	}
	if email == "" {
		return nil, ErrUnauthenticated
	}
	u, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("[SESSION] resolve %q failed: %v", email, err)
		return nil, ErrUnauthenticated
	}
	return u, nil
}
