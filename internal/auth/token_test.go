package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestIssueAndParseToken(t *testing.T) {
	p := Principal{UserID: 42, Roles: []string{"ROLE_USER", "ROLE_ADMIN"}}

	token, err := IssueToken(p, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, p.UserID, parsed.UserID)
	assert.Equal(t, p.Roles, parsed.Roles)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken(Principal{UserID: 1}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := IssueToken(Principal{UserID: 1}, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_NoneAlgorithmRejected(t *testing.T) {
	// Unsigned token with alg=none; header/payload are valid base64 JSON.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiIxIn0."
	_, err := ParseToken(unsigned, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
