package middleware

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	UserContextKey = "userID"
	RoleContextKey = "role"
	RoleAdmin      = "admin"
)

var ErrNoIdentity = errors.New("user ID not found in context")

// Authenticator resolves the caller from a bearer JWT or, when the service
// sits behind the API gateway, from the identity headers it injects.
type Authenticator struct {
	secret         []byte
	trustGatewayID bool
}

func NewAuthenticator(jwtSecret string, trustGatewayHeaders bool) *Authenticator {
	var secret []byte
	if s := strings.TrimSpace(jwtSecret); s != "" {
		secret = []byte(s)
	}
	return &Authenticator{secret: secret, trustGatewayID: trustGatewayHeaders}
}

// ParseToken validates an HMAC-signed token and returns the subject and
// role. The subject is read from "sub", falling back to "user_id".
func (a *Authenticator) ParseToken(tokenStr string) (string, string, error) {
	if a.secret == nil {
		return "", "", fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		sub, _ = claims["user_id"].(string)
	}
	role, _ := claims["role"].(string)
	return sub, role, nil
}

// Required rejects requests without a valid identity with 401.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, err := a.identify(c)
		if err != nil {
			apperrors.Respond(c, apperrors.Unauthenticated(err.Error()))
			return
		}

		if _, err := uuid.Parse(userID); err != nil {
			apperrors.Respond(c, apperrors.Unauthenticated("user id must be a UUID"))
			return
		}

		c.Set(UserContextKey, userID)
		c.Set(RoleContextKey, role)
		c.Next()
	}
}

func (a *Authenticator) identify(c *gin.Context) (string, string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return "", "", fmt.Errorf("authorization header must use the Bearer scheme")
		}
		userID, role, err := a.ParseToken(strings.TrimSpace(tokenStr))
		if err != nil {
			return "", "", err
		}
		if userID == "" {
			return "", "", fmt.Errorf("token has no subject")
		}
		return userID, role, nil
	}

	if !a.trustGatewayID {
		return "", "", fmt.Errorf("missing bearer token")
	}

	userID := c.GetHeader("X-User-ID")
	role := c.GetHeader("X-User-Role")

	// Fallback to cookies set by the API gateway.
	if userID == "" {
		if v, err := c.Cookie("user_id"); err == nil && v != "" {
			userID = v
		}
	}
	if role == "" {
		if v, err := c.Cookie("user_role"); err == nil && v != "" {
			role = v
		}
	}

	if userID == "" {
		return "", "", fmt.Errorf("missing user identity")
	}
	return userID, role, nil
}

// GetUserID extracts the authenticated user ID from the Gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	val, ok := c.Get(UserContextKey)
	if !ok {
		return uuid.Nil, ErrNoIdentity
	}
	id, ok := val.(string)
	if !ok || id == "" {
		return uuid.Nil, ErrNoIdentity
	}
	return uuid.Parse(id)
}

// AdminOnly restricts access to the admin role. It must run after Required.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleContextKey) != RoleAdmin {
			apperrors.Respond(c, apperrors.Unauthorized("Admin role required"))
			return
		}
		c.Next()
	}
}
