package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-engine/domain"
	errs "chat-engine/errors"
)

func TestVerifier_Roundtrip(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier("test-secret")
	alice := domain.Identity{UserID: 1, Username: "alice"}

	token, err := verifier.GenerateToken(alice, time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	identity, err := verifier.VerifyToken(token)
	req.NoError(err)
	req.Equal(alice, identity)
}

func TestVerifier_Missing_Token(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier("test-secret")

	_, err := verifier.VerifyToken("")

	req.ErrorIs(err, errs.ErrAuth)
}

func TestVerifier_Garbage_Token(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier("test-secret")

	_, err := verifier.VerifyToken("not.a.jwt")

	req.ErrorIs(err, errs.ErrAuth)
}

func TestVerifier_Wrong_Secret(t *testing.T) {
	req := require.New(t)
	issuer := NewVerifier("issuer-secret")
	verifier := NewVerifier("another-secret")

	token, err := issuer.GenerateToken(domain.Identity{UserID: 1, Username: "alice"}, time.Hour)
	req.NoError(err)

	_, err = verifier.VerifyToken(token)

	req.ErrorIs(err, errs.ErrAuth)
}

func TestVerifier_Expired_Token(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier("test-secret")

	token, err := verifier.GenerateToken(domain.Identity{UserID: 1, Username: "alice"}, -time.Minute)
	req.NoError(err)

	_, err = verifier.VerifyToken(token)

	req.ErrorIs(err, errs.ErrAuth)
}
