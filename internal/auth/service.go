// Package auth extracts the authenticated principal from requests. Credential
// verification (login, password checks, token issuance) happens in the
// external identity provider; this package only validates and trusts
// HMAC-signed claims.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the identity claims this service trusts
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Service validates bearer tokens
type Service struct {
	secret []byte
}

// NewService creates an auth service with the shared HMAC secret
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// ValidateToken validates and parses a JWT token, returning the principal's
// user id along with the claims.
func (s *Service) ValidateToken(tokenString string) (uuid.UUID, *Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, nil, fmt.Errorf("invalid token")
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid user id in token: %w", err)
	}

	return userID, claims, nil
}
