package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/model"
)

const issuer = "bookingdesk"

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the principal a bearer token was issued for.
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID string `json:"principalId"`
	Role        string `json:"role"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
}

func (c Claims) Principal(token string) model.Principal {
	return model.Principal{
		ID:    c.PrincipalID,
		Name:  c.Name,
		Email: c.Email,
		Role:  c.Role,
		Token: token,
	}
}

func Sign(secret string, p model.Principal, ttl time.Duration) (string, error) {
	if !domain.IsValidRole(p.Role) {
		return "", fmt.Errorf("sign token: %w", domain.ErrInvalidRole)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		PrincipalID: p.ID,
		Role:        p.Role,
		Name:        p.Name,
		Email:       p.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func Verify(secret, token string) (Claims, error) {
	claims := Claims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := checkClaims(claims); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

// ParseUnverified reads the claims without checking the signature. The
// client uses it to learn who it is; the API still verifies every request.
func ParseUnverified(token string) (Claims, error) {
	claims := Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := checkClaims(claims); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func checkClaims(c Claims) error {
	if c.PrincipalID == "" {
		return fmt.Errorf("%w: missing principalId", ErrInvalidToken)
	}
	if !domain.IsValidRole(c.Role) {
		return fmt.Errorf("%w: role %q", domain.ErrInvalidRole, c.Role)
	}
	return nil
}
