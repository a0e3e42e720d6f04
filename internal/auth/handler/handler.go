package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codecooknucleus/secureAuth0/internal/auth/provider"
	"github.com/codecooknucleus/secureAuth0/internal/linking"
	"github.com/codecooknucleus/secureAuth0/internal/management"
	"github.com/codecooknucleus/secureAuth0/internal/middleware"
	"github.com/codecooknucleus/secureAuth0/internal/session"
)

// Directory is the read side of the management client the account
// views consume.
type Directory interface {
	UserByID(ctx context.Context, subjectID string) (*management.Account, error)
	UsersByEmail(ctx context.Context, email string) ([]management.Account, error)
}

type Handler struct {
	provider     provider.LoginProvider
	sessionStore session.Store
	directory    Directory
	linker       *linking.Coordinator
	deleter      *linking.DeletionCoordinator
	terminator   *session.Terminator
	sessionTTL   time.Duration
	baseURL      string
}

func NewHandler(
	loginProvider provider.LoginProvider,
	sessionStore session.Store,
	directory Directory,
	linker *linking.Coordinator,
	deleter *linking.DeletionCoordinator,
	terminator *session.Terminator,
	sessionTTL time.Duration,
	baseURL string,
) *Handler {
	return &Handler{
		provider:     loginProvider,
		sessionStore: sessionStore,
		directory:    directory,
		linker:       linker,
		deleter:      deleter,
		terminator:   terminator,
		sessionTTL:   sessionTTL,
		baseURL:      baseURL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	r.GET("/login", h.Login)
	r.GET("/callback", h.Callback)
	r.POST("/logout", h.Logout)

	account := r.Group("/account")
	account.Use(middleware.GinRequireAuth(authMiddleware))

	account.GET("/profile", h.Profile)
	account.GET("/userinfo", h.UserInfo)
	account.GET("/privacy", h.Privacy)
	account.GET("/check-unlinked", h.CheckUnlinkedMultipleAccounts)
	account.GET("/check-linked", h.CheckLinkedAccounts)
	account.GET("/linked-accounts", h.LinkedAccountsInfo)
	account.POST("/link", h.LinkAccount)
	account.POST("/delete", h.DeleteUser)
}
