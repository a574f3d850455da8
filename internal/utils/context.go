package utils

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type ContextKey string

const (
	ClaimsKey  ContextKey = "claims"
	SubjectKey ContextKey = "sub"
)

var (
	ErrNoClaimsInContext  = errors.New("no claims found in context")
	ErrNoSubjectInClaims  = errors.New("no sub found in claims")
	ErrInvalidSubjectType = errors.New("sub must be a string")
)

// GetSubjectFromContext returns the caller named by the verified token.
func GetSubjectFromContext(c context.Context) (string, error) {
	claims, exists := c.Value(ClaimsKey).(jwt.MapClaims)
	if !exists {
		return "", ErrNoClaimsInContext
	}

	subject, exists := claims[string(SubjectKey)]
	if !exists {
		return "", ErrNoSubjectInClaims
	}

	subjectStr, ok := subject.(string)
	if !ok {
		return "", ErrInvalidSubjectType
	}

	return subjectStr, nil
}

// RolesFromClaims returns the string roles of the token; non-string entries
// are ignored.
func RolesFromClaims(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"].([]any)
	if !ok {
		return nil
	}

	roles := make([]string, 0, len(raw))
	for _, role := range raw {
		if roleStr, ok := role.(string); ok {
			roles = append(roles, roleStr)
		}
	}
	return roles
}
