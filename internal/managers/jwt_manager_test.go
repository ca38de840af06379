package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager(t *testing.T) JWTMgr {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return NewJWTManager(privateKey, publicKey)
}

func TestGenerateAndValidateJWT(t *testing.T) {
	jwtMgr := newTestJWTManager(t)

	sessionId := uuid.New().String()
	token, err := jwtMgr.GenerateJWT(sessionId)
	require.NoError(t, err)

	subject, err := jwtMgr.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, sessionId, subject)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	jwtMgr := newTestJWTManager(t)

	_, err := jwtMgr.ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsForeignKey(t *testing.T) {
	signer := newTestJWTManager(t)
	verifier := newTestJWTManager(t)

	token, err := signer.GenerateJWT(uuid.New().String())
	require.NoError(t, err)

	_, err = verifier.ValidateJWT(token)
	assert.Error(t, err)
}
