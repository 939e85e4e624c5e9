package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/session"
)

// sessionStore is the minimal user lookup behind a resolver in tests.
type sessionStore struct {
	byEmail map[string]*model.User
}

func (s *sessionStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *sessionStore) FindByID(context.Context, uint64) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *sessionStore) ListExcept(context.Context, string) ([]model.User, error) {
	return nil, nil
}

func (s *sessionStore) EnsureByEmail(context.Context, *model.User) (bool, error) {
	return false, nil
}

func (s *sessionStore) UpdateProfile(context.Context, uint64, *string, *string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *sessionStore) SetDB(*gorm.DB) {}

func resolverFor(users ...*model.User) *session.Resolver {
	store := &sessionStore{byEmail: map[string]*model.User{}}
	for _, u := range users {
		store.byEmail[u.Email] = u
	}
	return session.NewResolver(store, false)
}

type fakeMessageService struct {
	sent    []sentCall
	sendMsg *model.Message
	sendErr error
	list    []model.Message
}

type sentCall struct {
	sender *model.User
	convID uint64
	body   *string
	image  *string
}

func (s *fakeMessageService) Send(_ context.Context, sender *model.User, convID uint64, body, image *string) (*model.Message, error) {
	s.sent = append(s.sent, sentCall{sender: sender, convID: convID, body: body, image: image})
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return s.sendMsg, nil
}

func (s *fakeMessageService) ListByConversation(context.Context, uint64) []model.Message {
	if s.list == nil {
		return []model.Message{}
	}
	return s.list
}

type fakeUserService struct {
	updated    []*model.User
	updateErr  error
	registered []string
	users      []model.User
}

func (s *fakeUserService) List(context.Context, string) []model.User {
	if s.users == nil {
		return []model.User{}
	}
	return s.users
}

func (s *fakeUserService) UpdateProfile(_ context.Context, caller *model.User, name, image *string) (*model.User, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	u := *caller
	if name != nil {
		u.Name = name
	}
	if image != nil {
		u.Image = image
	}
	s.updated = append(s.updated, &u)
	return &u, nil
}

func (s *fakeUserService) Register(_ context.Context, email string, name, image *string) (*model.User, error) {
	s.registered = append(s.registered, email)
	return &model.User{ID: 1, Email: email, Name: name, Image: image}, nil
}

// newJSONContext builds an echo context for a JSON request; email is attached
// the way the auth middleware does it, empty meaning no session.
func newJSONContext(method, target, body, email string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if email != "" {
		c.Set("email", email)
	}
	return c, rec
}

func strptr(s string) *string { return &s }
