package middleware

import (
	deliverycontext "accountsvc/internal/delivery/context"
	domainerrors "accountsvc/internal/domain/errors"
	"accountsvc/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for HTTP Basic authentication.
type AuthMiddleware struct {
	uc usecase.AccountUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(uc usecase.AccountUsecase) *AuthMiddleware {
	return &AuthMiddleware{uc: uc}
}

// Authenticate resolves the Authorization header to a principal and stores it
// on the context. A missing, malformed, or undecodable header is not a parse
// error; it degrades to the same authentication failure as bad credentials.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, password, ok := c.Request().BasicAuth()
		if !ok {
			return domainerrors.ErrAuthenticationFailed
		}

		principal, err := m.uc.Authenticate(c.Request().Context(), userID, password)
		if err != nil {
			return err
		}

		deliverycontext.SetPrincipal(c, principal)

		return next(c)
	}
}
