package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dispatch-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrParseJWTToken   = errors.New("failed to parse jwt token")
	ErrInvalidJWTToken = errors.New("invalid jwt token")
)

// Middleware guards mutation routes with an HS256 bearer token. When no
// secret is configured the middleware passes every request through, which
// keeps single-tenant deployments zero-config.
type Middleware struct {
	secret string
	logger *observability.Logger
}

func NewMiddleware(secret string, logger *observability.Logger) Middleware {
	return Middleware{
		secret: secret,
		logger: logger,
	}
}

// Enabled reports whether bearer auth is enforced.
func (m Middleware) Enabled() bool {
	return m.secret != ""
}

// Handle validates the Authorization header on protected routes.
func (m Middleware) Handle(c *gin.Context) {
	if !m.Enabled() {
		c.Next()
		return
	}
	ctx := c.Request.Context()

	tokenHeader := c.GetHeader("Authorization")
	if tokenHeader == "" || !strings.HasPrefix(tokenHeader, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is missing or invalid"})
		c.Abort()
		return
	}

	tokenString := strings.TrimPrefix(tokenHeader, "Bearer ")
	if err := m.validateToken(tokenString); err != nil {
		m.logger.Error(ctx, "rejected bearer token", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is missing or invalid"})
		c.Abort()
		return
	}
	c.Next()
}

func (m Middleware) validateToken(tokenString string) error {
	t, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParseJWTToken, err)
	}
	if !t.Valid {
		return ErrInvalidJWTToken
	}
	return nil
}
