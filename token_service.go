package tasks

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	// DefaultSessionExpiration is the session token lifetime in hours.
	DefaultSessionExpiration = 24 * 7
	// DefaultInviteExpiration is the invite token lifetime in hours.
	DefaultInviteExpiration = 24
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey        []byte
	sessionExpiration int
	inviteExpiration  int
	issuer            string
	logger            Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, cfg Config, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}

	sessionExpiration := DefaultSessionExpiration
	inviteExpiration := DefaultInviteExpiration
	issuer := ""
	if cfg != nil {
		if cfg.GetSessionExpiration() > 0 {
			sessionExpiration = cfg.GetSessionExpiration()
		}
		if cfg.GetInviteExpiration() > 0 {
			inviteExpiration = cfg.GetInviteExpiration()
		}
		issuer = cfg.GetIssuer()
	}

	return &TokenServiceImpl{
		signingKey:        signingKey,
		sessionExpiration: sessionExpiration,
		inviteExpiration:  inviteExpiration,
		issuer:            issuer,
		logger:            logger,
	}
}

// IssueSessionToken signs a session token for the given account id.
func (ts *TokenServiceImpl) IssueSessionToken(userID uuid.UUID) (string, error) {
	claims := &TokenClaims{
		RegisteredClaims: ts.registered(userID.String(), ts.sessionExpiration),
		UID:              userID.String(),
	}
	return ts.signClaims(claims)
}

// IssueInviteToken signs an invite token bound to the given email.
func (ts *TokenServiceImpl) IssueInviteToken(email string) (string, error) {
	claims := &TokenClaims{
		RegisteredClaims: ts.registered(email, ts.inviteExpiration),
		Email:            email,
	}
	return ts.signClaims(claims)
}

// Validate parses and verifies a token string, returning structured claims.
// Expired tokens fail with ErrTokenExpired, everything else that does not
// verify fails with ErrTokenMalformed.
func (ts *TokenServiceImpl) Validate(tokenString string) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(errors.CodeUnauthorized)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode claims")
	return nil, ErrTokenMalformed
}

func (ts *TokenServiceImpl) registered(subject string, expirationHours int) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    ts.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expirationHours) * time.Hour)),
	}
}

func (ts *TokenServiceImpl) signClaims(claims *TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}
