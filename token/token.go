// Package token reads the claims the portal needs out of a backend access token.
// The signature is not verified here, the backend does that on every request.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	portal "github.com/jacobmichels/Course-Portal-Go"
)

var ErrNoRole = errors.New("role not found in token")

var (
	roleClaims     = []string{"role", "user_role", "type", "userType"}
	usernameClaims = []string{"username", "user", "sub"}
)

type Claims struct {
	Username  string
	Role      portal.Role
	ExpiresAt time.Time
}

// Parse decodes access. fallbackUsername is used when the token carries no username.
func Parse(access, fallbackUsername string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return Claims{}, fmt.Errorf("failed to decode token: %w", err)
	}

	role := firstString(claims, roleClaims)
	if role == "" {
		return Claims{}, ErrNoRole
	}

	username := firstString(claims, usernameClaims)
	if username == "" {
		username = fallbackUsername
	}

	result := Claims{Username: username, Role: portal.Role(role)}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}

	return result, nil
}

func firstString(claims jwt.MapClaims, keys []string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
