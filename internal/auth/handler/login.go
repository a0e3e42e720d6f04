package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codecooknucleus/secureAuth0/internal/session"
)

// Login sends the browser to the provider's hosted login page.
// ?prompt=login forces a fresh authentication even when the provider
// still holds a live SSO session; the post-merge relogin uses this.
func (h *Handler) Login(c *gin.Context) {
	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	forceLogin := c.Query("prompt") == "login"

	authURL := h.provider.AuthCodeURL(state, codeChallenge, forceLogin)
	c.Redirect(http.StatusFound, authURL)
}

// Callback finishes the hosted-login flow: it verifies state, exchanges
// the code, and issues the local session carrying the verified claims.
func (h *Handler) Callback(c *gin.Context) {
	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		slog.Warn("hosted login returned error",
			"error", errParam,
			"description", c.Query("error_description"),
		)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		slog.Error("callback missing code and error")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	user, err := h.provider.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		slog.Error("code exchange failed", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	now := time.Now()
	expiresAt := now.Add(h.sessionTTL)

	sess := session.Session{
		SessionID: sessionID,
		SubjectID: user.SubjectID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to persist session",
		})
		return
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("login succeeded",
		"subject_id", user.SubjectID,
		"session_id", sessionID,
	)

	c.Redirect(http.StatusFound, "/")
}

// Logout ends the local session and chains into the provider's
// federated logout.
func (h *Handler) Logout(c *gin.Context) {
	redirect := h.terminator.Terminate(
		c.Request.Context(),
		c.Writer,
		c.Request,
		h.baseURL,
	)
	c.Redirect(http.StatusFound, redirect)
}
