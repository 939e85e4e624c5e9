package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/knagato/messenger-backend/internal/handler"
	appmw "github.com/knagato/messenger-backend/internal/middleware"
	"github.com/knagato/messenger-backend/internal/realtime"
	"github.com/knagato/messenger-backend/internal/repository"
	"github.com/knagato/messenger-backend/internal/service"
	"github.com/knagato/messenger-backend/internal/session"
)

type Options struct {
	DB         *gorm.DB
	Bus        realtime.Broadcaster
	Authorizer *realtime.ChannelAuthorizer
	AuthMW     *appmw.AuthMiddleware

	// Prerender swaps in the stub store, the no-op broadcaster and the
	// placeholder identity; no live infrastructure is touched.
	Prerender bool

	SHA       string
	BuildTime string
}

type Server struct {
	e        *echo.Echo
	userRepo repository.UserRepository
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	sha      string
	build    string
}

func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	var (
		userRepo repository.UserRepository
		convRepo repository.ConversationRepository
		msgRepo  repository.MessageRepository
		bus      realtime.Broadcaster
	)
	if opts.Prerender {
		userRepo = repository.StubUserRepository{}
		convRepo = repository.StubConversationRepository{}
		msgRepo = repository.StubMessageRepository{}
		bus = realtime.NoopBroadcaster{}
	} else {
		userRepo = repository.NewUserRepository(opts.DB)
		convRepo = repository.NewConversationRepository(opts.DB)
		msgRepo = repository.NewMessageRepository(opts.DB)
		bus = opts.Bus
	}

	resolver := session.NewResolver(userRepo, opts.Prerender)

	userSvc := service.NewUserService(userRepo, bus)
	convSvc := service.NewConversationService(convRepo, msgRepo, userRepo, bus)
	msgSvc := service.NewMessageService(msgRepo, convRepo, bus)

	msgHandler := handler.NewMessageHandler(msgSvc, resolver)
	convHandler := handler.NewConversationHandler(convSvc, msgSvc, resolver)
	settingsHandler := handler.NewSettingsHandler(userSvc, resolver)
	userHandler := handler.NewUserHandler(userSvc, resolver)
	rtHandler := handler.NewRealtimeHandler(opts.Authorizer, resolver)

	requireAuth := appmw.PrerenderIdentity
	if !opts.Prerender && opts.AuthMW != nil {
		requireAuth = opts.AuthMW.RequireAuth
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    opts.SHA,
			"build_time": opts.BuildTime,
		})
	})

	api := e.Group("/api")
	api.POST("/messages", msgHandler.Send, requireAuth)
	api.POST("/settings", settingsHandler.Update, requireAuth)
	api.POST("/register", userHandler.Register, requireAuth)
	api.GET("/users", userHandler.List, requireAuth)
	api.GET("/conversations", convHandler.List, requireAuth)
	api.POST("/conversations", convHandler.Create, requireAuth)
	api.POST("/conversations/cleanup", convHandler.Cleanup, requireAuth)
	api.GET("/conversations/:id", convHandler.Get, requireAuth)
	api.DELETE("/conversations/:id", convHandler.Delete, requireAuth)
	api.GET("/conversations/:id/messages", convHandler.ListMessages, requireAuth)
	api.POST("/conversations/:id/seen", convHandler.Seen, requireAuth)
	api.POST("/realtime/auth", rtHandler.Authorize, requireAuth)

	return &Server{
		e:        e,
		userRepo: userRepo,
		convRepo: convRepo,
		msgRepo:  msgRepo,
		sha:      opts.SHA,
		build:    opts.BuildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SetDB injects a connection that came up after the server started; until
// then the repositories answer with their not-ready error.
func (s *Server) SetDB(db *gorm.DB) {
	s.userRepo.SetDB(db)
	s.convRepo.SetDB(db)
	s.msgRepo.SetDB(db)
}
