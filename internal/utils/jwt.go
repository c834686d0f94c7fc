package utils

import (
	"errors"
	"time"

	"kudi/internal/config"
	"kudi/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
	tokenIssuer     = "kudi-api"
)

var ErrInvalidTokenKind = errors.New("unexpected token kind")

func secretFor(kind string) (string, error) {
	var secret string
	if kind == models.TokenKindRefresh {
		secret = config.RefreshSecret()
	} else {
		secret = config.GetEnv("JWT_SECRET", "")
	}
	if secret == "" {
		return "", errors.New("JWT_SECRET not configured")
	}
	return secret, nil
}

func signToken(claims *models.UserClaims, kind string, ttl time.Duration, now time.Time) (string, error) {
	secret, err := secretFor(kind)
	if err != nil {
		return "", err
	}
	signed := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        MustGenerateSecureCode(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   claims.IdentityID.String(),
		},
		IdentityID:   claims.IdentityID,
		Phone:        claims.Phone,
		Email:        claims.Email,
		TokenVersion: claims.TokenVersion,
		Kind:         kind,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, signed).SignedString([]byte(secret))
}

// GenerateTokens generates an access token and a refresh token for the given claims.
// Access tokens are signed with JWT_SECRET, refresh tokens with REFRESH_SECRET.
func GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	now := time.Now()
	accessToken, err = signToken(claims, models.TokenKindAccess, AccessTokenTTL, now)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = signToken(claims, models.TokenKindRefresh, RefreshTokenTTL, now)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// ParseToken parses and validates a JWT of the expected kind.
func ParseToken(tokenStr, kind string) (*jwt.Token, *models.UserClaims, error) {
	secret, err := secretFor(kind)
	if err != nil {
		return nil, nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}
	if claims.Kind != kind {
		return nil, nil, ErrInvalidTokenKind
	}
	return token, claims, nil
}
