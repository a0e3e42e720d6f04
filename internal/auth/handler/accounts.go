package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codecooknucleus/secureAuth0/internal/auth"
	"github.com/codecooknucleus/secureAuth0/internal/linking"
	"github.com/codecooknucleus/secureAuth0/internal/management"
)

func currentUser(c *gin.Context) (auth.AuthenticatedUser, bool) {
	user, ok := auth.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return user, ok
}

// Profile renders the claims already verified at login; no upstream
// call is made.
func (h *Handler) Profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":    user.Name,
		"email":   user.Email,
		"picture": user.Picture,
	})
}

// UserInfo fetches the caller's full account record from the directory.
func (h *Handler) UserInfo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	account, err := h.directory.UserByID(c.Request.Context(), user.SubjectID)
	if err != nil {
		h.directoryFailure(c, "userinfo", user, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// Privacy reports whether the caller has accepted the privacy policies,
// read from the account's app metadata.
func (h *Handler) Privacy(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	account, err := h.directory.UserByID(c.Request.Context(), user.SubjectID)
	if err != nil {
		h.directoryFailure(c, "privacy", user, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consentGiven": account.PrivacyPoliciesAccepted(),
	})
}

// CheckUnlinkedMultipleAccounts reports whether separate accounts exist
// for the caller's email, i.e. merge candidates.
func (h *Handler) CheckUnlinkedMultipleAccounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	accounts, err := h.directory.UsersByEmail(c.Request.Context(), user.Email)
	if err != nil {
		h.directoryFailure(c, "check-unlinked", user, err)
		return
	}

	hasMultiple := linking.HasUnlinkedMultipleAccounts(accounts)
	message := ""
	if hasMultiple {
		message = fmt.Sprintf(
			"We found %d accounts associated with your email address %s. "+
				"You can link these accounts to merge them into a single account.",
			len(accounts), user.Email,
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"hasMultipleAccounts": hasMultiple,
		"message":             message,
		"accountCount":        len(accounts),
	})
}

// CheckLinkedAccounts reports whether the caller's email resolves to a
// single, already-merged account.
func (h *Handler) CheckLinkedAccounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	accounts, err := h.directory.UsersByEmail(c.Request.Context(), user.Email)
	if err != nil {
		h.directoryFailure(c, "check-linked", user, err)
		return
	}

	hasLinked := linking.HasLinkedAccounts(accounts)
	message := ""
	if hasLinked {
		message = "Your account is linked with multiple identities. " +
			"You can view your linked accounts information."
	}

	c.JSON(http.StatusOK, gin.H{
		"hasMultipleAccounts": hasLinked,
		"message":             message,
		"accountCount":        len(accounts),
	})
}

// LinkedAccountsInfo renders the full consolidation summary: flags, the
// primary-account projection, and the linked-identity details.
func (h *Handler) LinkedAccountsInfo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	accounts, err := h.directory.UsersByEmail(c.Request.Context(), user.Email)
	if err != nil {
		h.directoryFailure(c, "linked-accounts", user, err)
		return
	}

	c.JSON(http.StatusOK, linking.Summarize(accounts))
}

type linkRequest struct {
	PrimaryUserID   string `json:"primary_user_id" binding:"required"`
	SecondaryUserID string `json:"secondary_user_id" binding:"required"`
	Provider        string `json:"provider" binding:"required"`
}

// LinkAccount merges two accounts. Success terminates both sessions and
// tells the caller where to go for the mandatory fresh login; failure
// changes nothing and surfaces the upstream error text unchanged.
func (h *Handler) LinkAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.linker.Link(
		c.Request.Context(),
		c.Writer,
		c.Request,
		req.PrimaryUserID,
		req.SecondaryUserID,
		req.Provider,
	)
	if err != nil {
		var linkErr *management.LinkError
		if errors.As(err, &linkErr) {
			slog.Error("link rejected by upstream",
				"subject_id", user.SubjectID,
				"primary_user_id", req.PrimaryUserID,
				"secondary_user_id", req.SecondaryUserID,
				"upstream_status", linkErr.Status,
			)
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error":   linkErr.Body,
			})
			return
		}
		slog.Error("link failed",
			"subject_id", user.SubjectID,
			"primary_user_id", req.PrimaryUserID,
			"error", err,
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "failed to link accounts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": result.RedirectURL,
	})
}

type deleteRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// DeleteUser removes an account at the provider. Deleting yourself also
// ends your session.
func (h *Handler) DeleteUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.deleter.Delete(
		c.Request.Context(),
		c.Writer,
		c.Request,
		req.UserID,
		user,
	)
	if err != nil {
		var delErr *management.DeletionError
		if errors.As(err, &delErr) {
			slog.Error("delete rejected by upstream",
				"subject_id", user.SubjectID,
				"target_user_id", req.UserID,
				"upstream_status", delErr.Status,
			)
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"message": "Failed to delete user: " + delErr.Body,
			})
			return
		}
		slog.Error("delete failed",
			"subject_id", user.SubjectID,
			"target_user_id", req.UserID,
			"error", err,
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "failed to delete user",
		})
		return
	}

	resp := gin.H{
		"success": true,
		"message": "User deleted successfully.",
	}
	if result.SelfDeleted {
		resp["redirect"] = result.RedirectURL
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) directoryFailure(c *gin.Context, operation string, user auth.AuthenticatedUser, err error) {
	var dirErr *management.DirectoryError
	if errors.As(err, &dirErr) {
		slog.Error("directory lookup failed",
			"operation", operation,
			"subject_id", user.SubjectID,
			"kind", dirErr.Kind.String(),
			"upstream_status", dirErr.Status,
		)
	} else {
		slog.Error("directory lookup failed",
			"operation", operation,
			"subject_id", user.SubjectID,
			"error", err,
		)
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "account lookup failed"})
}
