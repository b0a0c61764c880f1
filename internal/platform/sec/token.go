// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing) from
// the domain logic. It is injected into the authentication service through
// small interfaces so tests can swap the clock or the hash cost.
package sec

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// # Failure Kinds

var (
	// ErrTokenMalformed covers unparsable tokens, unexpected algorithms,
	// signature mismatches and unusable subjects.
	ErrTokenMalformed = errors.New("sec: malformed session token")

	// ErrTokenExpired is returned when the validation instant is at or past
	// the token's expiry.
	ErrTokenExpired = errors.New("sec: session token expired")
)

// SessionClaims is the payload embedded inside a session token.
//
// Only the subject is trusted; the identity itself is reloaded from the
// credential store on every request.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SubjectID returns the identity id carried in the "sub" claim.
func (c *SessionClaims) SubjectID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid subject %q", ErrTokenMalformed, c.Subject)
	}
	return id, nil
}

// IssuedToken is a freshly signed session token and its metadata.
type IssuedToken struct {
	Value     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies HS256 session tokens with a process-wide secret.
//
// It is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenCodec creates a codec. The secret must be at least minSecretLength bytes.
func NewTokenCodec(secret []byte, issuer string, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("sec: signing secret must be at least %d bytes", minSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("sec: token ttl must be positive")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenCodec{secret: key, issuer: issuer, ttl: ttl}, nil
}

const minSecretLength = 32

// TTL returns the validity window of issued tokens.
func (codec *TokenCodec) TTL() time.Duration {
	return codec.ttl
}

// Issue creates a signed token for subjectID valid from now for the codec TTL.
func (codec *TokenCodec) Issue(subjectID int64, now time.Time) (IssuedToken, error) {
	tokenID, err := uuid.NewV7()
	if err != nil {
		tokenID = uuid.New()
	}

	issuedAt := jwt.NewNumericDate(now)
	expiresAt := jwt.NewNumericDate(now.Add(codec.ttl))

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Subject:   strconv.FormatInt(subjectID, 10),
			Issuer:    codec.issuer,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return IssuedToken{
		Value:     signedToken,
		ID:        claims.ID,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// Decode verifies the signature and expiry of tokenString as of now.
//
// Every failure wraps exactly one of [ErrTokenMalformed] or [ErrTokenExpired].
// The signature is checked before expiry, so a tampered expired token is
// reported as malformed.
func (codec *TokenCodec) Decode(tokenString string, now time.Time) (*SessionClaims, error) {
	claims := &SessionClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return codec.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(codec.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	// Expiry is exclusive: a token is dead at its exp instant.
	if !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	if _, err := claims.SubjectID(); err != nil {
		return nil, err
	}

	return claims, nil
}
