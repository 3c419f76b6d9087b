package response

import (
	"github.com/labstack/echo/v4"
)

// The API declares an explicit charset on every response.
const contentTypeJSON = "application/json; charset=utf-8"

// MessageResponse is the body shared by plain status responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// FailureResponse is the body of a 400 validation failure.
type FailureResponse struct {
	Message string `json:"message"`
	Cause   string `json:"cause"`
}

// SignupUser is the user payload echoed by a successful signup.
type SignupUser struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

// SignupResponse is the body of a successful signup.
type SignupResponse struct {
	Message string     `json:"message"`
	User    SignupUser `json:"user"`
}

// UserDetail is the user payload of a retrieval; the comment key is omitted
// entirely when no comment is stored.
type UserDetail struct {
	UserID   string  `json:"user_id"`
	Nickname string  `json:"nickname"`
	Comment  *string `json:"comment,omitempty"`
}

// UserDetailResponse is the body of a successful retrieval.
type UserDetailResponse struct {
	Message string     `json:"message"`
	User    UserDetail `json:"user"`
}

// UpdatedUser is the user payload of a successful update; unlike retrieval the
// comment is always present, empty when unset.
type UpdatedUser struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Comment  string `json:"comment"`
}

// UpdatedUserResponse is the body of a successful update.
type UpdatedUserResponse struct {
	Message string      `json:"message"`
	User    UpdatedUser `json:"user"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// JSON writes v with the API's content type. Echo only fills the header when
// it is still empty, so setting it first pins the charset.
func JSON(c echo.Context, statusCode int, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentTypeJSON)

	return c.JSON(statusCode, v)
}
