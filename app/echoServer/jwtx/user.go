// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AccountIDFromContext reads the subject claim the auth middleware stashed
// on the context.
func AccountIDFromContext(c echo.Context) (int64, error) {
	if id, ok := c.Get("account_id").(int64); ok {
		return id, nil
	}
	// Fall back to the raw token for handlers outside the claim-extraction
	// middleware.
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return 0, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid jwt claims")
	}
	if f, ok := claims["sub"].(float64); ok {
		return int64(f), nil
	}
	return 0, errors.New("sub missing in claims")
}

// RoleFromContext answers the authorization question for this caller.
func RoleFromContext(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return ""
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	if s, ok := claims["role"].(string); ok {
		return s
	}
	return ""
}

func IsAdmin(c echo.Context) bool { return RoleFromContext(c) == "admin" }
