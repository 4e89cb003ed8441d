package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingKey   = errors.New("jwt secret is required")
)

// tokenClaims is the wire form of a token. The subject is the owner id.
type tokenClaims struct {
	Email string      `json:"email,omitempty"`
	Role  models.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Service verifies bearer tokens issued by the identity provider
type Service struct {
	jwtSecret []byte
	tokenExp  time.Duration
	now       func() time.Time
}

// NewService creates a new authentication service. A non-positive expiry defaults to 24h.
func NewService(secret string, expiry time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingKey
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Service{
		jwtSecret: []byte(secret),
		tokenExp:  expiry,
		now:       time.Now,
	}, nil
}

// GenerateToken mints a token for an owner. Production tokens come from the identity
// provider; this is used by the token command and tests.
func (s *Service) GenerateToken(ownerID, email string, role models.Role) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", fmt.Errorf("owner id is required: %w", models.ErrValidation)
	}
	if role != "" && !models.IsValidRole(role) {
		return "", fmt.Errorf("unknown role %q: %w", role, models.ErrValidation)
	}
	now := s.now()
	claims := tokenClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExp)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims. A token without a role
// belongs to the owner account itself and gets RoleAdmin.
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	role := claims.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if !models.IsValidRole(role) {
		return nil, ErrInvalidToken
	}

	return &models.Claims{
		OwnerID: claims.Subject,
		Email:   claims.Email,
		Role:    role,
		Exp:     claims.ExpiresAt.Unix(),
	}, nil
}

// ExtractTokenFromHeader extracts token from Authorization header
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
