package errors

import "testing"

func TestErrorHelpers(t *testing.T) {
	err := NewInvalidArgument("bad")
	if !IsInvalidArgument(err) {
		t.Fatal("expected invalid argument")
	}

	wrapped := WrapInternal(err, "ctx")
	if !IsInternal(wrapped) {
		t.Fatal("expected internal")
	}
}

func TestTokenRevokedMatchesInvalidToken(t *testing.T) {
	if !IsInvalidToken(ErrTokenRevoked) {
		t.Fatal("revoked must still be an invalid-token error")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if IsInvalidCredentials(ErrInvalidToken) {
		t.Fatal("invalid token must not match invalid credentials")
	}
	if IsInvalidPassword(ErrInvalidCredentials) {
		t.Fatal("invalid credentials must not match invalid password")
	}
	if IsNotFound(ErrAlreadyExists) {
		t.Fatal("already exists must not match not found")
	}
}
