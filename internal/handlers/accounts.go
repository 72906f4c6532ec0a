package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sajjaddev-web/desk/internal/middleware"
	"github.com/sajjaddev-web/desk/internal/services"
	appErrors "github.com/sajjaddev-web/desk/pkg/errors"
	"github.com/sajjaddev-web/desk/pkg/metrics"
	"github.com/sajjaddev-web/desk/pkg/response"
)

// AccountHandler exposes the account lifecycle over HTTP.
type AccountHandler struct {
	accounts *services.AccountService
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100,account_name"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,account_password"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type updateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100,account_name"`
	Password *string `json:"password" validate:"omitempty,account_password"`
}

// POST /api/auth/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.Registrations.WithLabelValues(registrationOutcome(err)).Inc()
		response.Error(c, err)
		return
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	response.Success(c, http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   result.Token,
		"account": result.Account,
	})
}

// GET /api/auth/activation?token=...
func (h *AccountHandler) Activate(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.NewBadRequest("token is required"))
		return
	}

	account, err := h.accounts.Activate(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Account activated successfully",
		"account": account,
	})
}

// POST /api/auth/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"account": result.Account,
	})
}

// PUT /api/auth/account
func (h *AccountHandler) Update(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req updateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.accounts.Update(c.Request.Context(), account.ID, services.UpdateInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Account updated successfully",
		"token":   result.Token,
		"account": result.Account,
	})
}

// DELETE /api/auth/account
func (h *AccountHandler) Delete(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), account.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Account deleted successfully",
	})
}

func registrationOutcome(err error) string {
	if appErr := appErrors.FromError(err); appErr != nil && appErr.StatusCode == http.StatusConflict {
		return "conflict"
	}
	return "error"
}
