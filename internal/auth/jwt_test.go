package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	tok, err := SignJWT("alice", "secret", time.Hour)
	require.NoError(t, err)

	sub, err := ParseJWT(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestParse_Rejects(t *testing.T) {
	tok, _ := SignJWT("alice", "secret", time.Hour)
	_, err := ParseJWT(tok, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _ := SignJWT("alice", "secret", -time.Minute)
	_, err = ParseJWT(expired, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSub, _ := SignJWT("", "secret", time.Hour)
	_, err = ParseJWT(noSub, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
