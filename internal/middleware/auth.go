package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"mastersol/internal/domain"
)

// Context keys set by AuthMiddleware
const (
	ContextSessionID = "session_id"
	ContextRole      = "role"
)

// TokenCookie is the cookie that carries the session token
const TokenCookie = "token"

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	SessionID string `json:"session_id"`
	UserID    int    `json:"user_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates session tokens
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator creates a new Authenticator
func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), ttl: ttl}
}

// GenerateJWT generates a new JWT token for a session
func (a *Authenticator) GenerateJWT(sessionID string, userID int, role domain.Role) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		SessionID: sessionID,
		UserID:    userID,
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// TTL returns how long issued tokens stay valid
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// ParseJWT validates a token string and returns its claims
func (a *Authenticator) ParseJWT(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// AuthMiddleware validates the session token and sets the session context.
// The token is read from the Authorization header, the token cookie, or,
// for WebSocket upgrades, the token query parameter.
func (a *Authenticator) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		claims, err := a.ParseJWT(tokenString)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextRole, claims.Role)

		return next(c)
	}
}

func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
		if q := c.QueryParam("token"); q != "" {
			return q, nil
		}
		return "", fmt.Errorf("Missing authentication token")
	}

	// Extract token from Bearer scheme
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("Invalid authorization header format")
	}
	return parts[1], nil
}

// AdminMiddleware checks if the authenticated user has the Admin role
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, err := GetUserRole(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "User role not found in context")
		}

		if role != string(domain.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}

		return next(c)
	}
}

// GetSessionID extracts the session ID from echo context
func GetSessionID(c echo.Context) (string, error) {
	id, ok := c.Get(ContextSessionID).(string)
	if !ok || id == "" {
		return "", fmt.Errorf("session_id not found in context")
	}
	return id, nil
}

// GetUserRole extracts user role from echo context
func GetUserRole(c echo.Context) (string, error) {
	role, ok := c.Get(ContextRole).(string)
	if !ok {
		return "", fmt.Errorf("role not found in context")
	}
	return role, nil
}
