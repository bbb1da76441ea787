package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
)

func TestJWTProvider_IssueAndVerify(t *testing.T) {
	issuer, verifier := NewJWTProvider("test-secret")

	token, err := issuer.Issue("user-123", "u@example.com", domain.RoleOrganizer, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTProvider_Claims(t *testing.T) {
	issuer, _ := NewJWTProvider("test-secret")

	token, err := issuer.Issue("user-123", "u@example.com", domain.RoleParticipant, time.Hour)
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "PARTICIPANT", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestJWTProvider_Verify_WrongSecret(t *testing.T) {
	issuer, _ := NewJWTProvider("secret-a")
	_, verifier := NewJWTProvider("secret-b")

	token, err := issuer.Issue("user-123", "u@example.com", domain.RoleParticipant, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTProvider_Verify_Expired(t *testing.T) {
	issuer, verifier := NewJWTProvider("test-secret")

	token, err := issuer.Issue("user-123", "u@example.com", domain.RoleParticipant, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTProvider_Verify_Garbage(t *testing.T) {
	_, verifier := NewJWTProvider("test-secret")

	_, err := verifier.Verify("not-a-jwt")
	assert.Error(t, err)
}
