package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/howstheair/dashboard/internal/auth"
)

func newService(key, issuer string) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: key,
		Issuer:     issuer,
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newService("test-secret-key-for-testing-only", "howstheair")

	token, expiresAt, err := svc.Issue("ops@example.com", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(auth.DefaultTokenTTL), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, "ops@example.com", claims.Operator)
	assert.Equal(t, "howstheair", claims.Issuer)
}

func TestJWTService_IssueRequiresOperator(t *testing.T) {
	svc := newService("k", "howstheair")

	_, _, err := svc.Issue("  ", time.Hour)
	assert.ErrorIs(t, err, auth.ErrMissingOperator)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newService("test-secret-key-for-testing-only", "howstheair")

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
		})
	}
}

func TestJWTService_WrongSigningKey(t *testing.T) {
	token, _, err := newService("key-one", "howstheair").Issue("ops", time.Hour)
	require.NoError(t, err)

	_, err = newService("key-two", "howstheair").Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_WrongIssuer(t *testing.T) {
	token, _, err := newService("key", "issuer-a").Issue("ops", time.Hour)
	require.NoError(t, err)

	_, err = newService("key", "issuer-b").Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_Expired(t *testing.T) {
	issuedAt := time.Date(2024, 12, 18, 0, 0, 0, 0, time.UTC)
	now := issuedAt
	svc := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "key",
		Issuer:     "howstheair",
		Now:        func() time.Time { return now },
	})

	token, _, err := svc.Issue("ops", time.Hour)
	require.NoError(t, err)

	now = issuedAt.Add(2 * time.Hour)
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, auth.ErrAccessTokenExpired)
}
