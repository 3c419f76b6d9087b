// Package handler contains the HTTP handlers for the application.
package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	deliverycontext "accountsvc/internal/delivery/context"
	"accountsvc/internal/delivery/http/response"
	domainerrors "accountsvc/internal/domain/errors"
	"accountsvc/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

type signupRequest struct {
	UserID   string  `json:"user_id"`
	Password string  `json:"password"`
	Nickname *string `json:"nickname"`
	Comment  *string `json:"comment"`
}

// Signup handles the account creation request.
func (h *AccountHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		// A body that cannot be parsed carries no credentials.
		return domainerrors.ErrSignupCredentialsRequired
	}

	output, err := h.uc.Signup(c.Request().Context(), &usecase.SignupInput{
		UserID:   req.UserID,
		Password: req.Password,
		Nickname: req.Nickname,
		Comment:  req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// The nickname echoed here is always the user_id, even when a nickname
	// was supplied and stored. Kept for wire compatibility.
	return response.JSON(c, http.StatusOK, response.SignupResponse{
		Message: "Account successfully created",
		User: response.SignupUser{
			UserID:   output.Account.UserID,
			Nickname: output.Account.UserID,
		},
	})
}

// GetUser handles the authenticated retrieval of any account.
func (h *AccountHandler) GetUser(c echo.Context) error {
	account, err := h.uc.GetAccount(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return errors.WithStack(err)
	}

	detail := response.UserDetail{
		UserID:   account.UserID,
		Nickname: account.EffectiveNickname(),
	}
	if account.Comment != "" {
		comment := account.Comment
		detail.Comment = &comment
	}

	return response.JSON(c, http.StatusOK, response.UserDetailResponse{
		Message: "User details by user_id",
		User:    detail,
	})
}

// UpdateUser handles the authenticated partial update of the caller's own account.
func (h *AccountHandler) UpdateUser(c echo.Context) error {
	principal := deliverycontext.GetPrincipal(c)
	if principal == nil {
		return domainerrors.ErrAuthenticationFailed
	}

	input, err := parseUpdatePayload(c)
	if err != nil {
		return err
	}

	account, err := h.uc.UpdateProfile(c.Request().Context(), principal, c.Param("user_id"), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, response.UpdatedUserResponse{
		Message: "User successfully updated",
		User: response.UpdatedUser{
			UserID:   account.UserID,
			Nickname: account.EffectiveNickname(),
			Comment:  account.Comment,
		},
	})
}

// CloseAccount handles the authenticated self-deletion request.
func (h *AccountHandler) CloseAccount(c echo.Context) error {
	principal := deliverycontext.GetPrincipal(c)
	if principal == nil {
		return domainerrors.ErrAuthenticationFailed
	}

	if err := h.uc.Close(c.Request().Context(), principal); err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, response.MessageResponse{
		Message: "Account and user successfully removed",
	})
}

// parseUpdatePayload scans the raw body so key presence, JSON null, and
// non-string values stay distinguishable from absent fields.
func parseUpdatePayload(c echo.Context) (*usecase.UpdateProfileInput, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		// An unparsable body carries neither nickname nor comment.
		return nil, domainerrors.ErrUpdateFieldsRequired
	}

	_, hasUserID := raw["user_id"]
	_, hasPassword := raw["password"]

	return &usecase.UpdateProfileInput{
		HasUserID:   hasUserID,
		HasPassword: hasPassword,
		Nickname:    profileField(raw, "nickname"),
		Comment:     profileField(raw, "comment"),
	}, nil
}

func profileField(raw map[string]json.RawMessage, key string) usecase.ProfileField {
	value, ok := raw[key]
	if !ok {
		return usecase.ProfileField{}
	}

	// json.Unmarshal leaves a string untouched on null, so null is screened
	// out before the type check.
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return usecase.ProfileField{Present: true}
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return usecase.ProfileField{Present: true}
	}

	return usecase.StringField(s)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.JSON(c, http.StatusOK, response.HealthResponse{OK: true})
}
