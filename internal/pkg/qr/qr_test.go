package qr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVerify_RoundTrip(t *testing.T) {
	s := NewSigner("secret")
	payload := s.Build("01HZX4K7Q9")

	userID, ok := s.Verify(payload)
	assert.True(t, ok)
	assert.Equal(t, "01HZX4K7Q9", userID)
}

func TestVerify_TamperedUserID(t *testing.T) {
	s := NewSigner("secret")
	payload := s.Build("u1")
	tampered := strings.Replace(payload, ":u1:", ":u2:", 1)

	_, ok := s.Verify(tampered)
	assert.False(t, ok)
}

func TestVerify_WrongSecret(t *testing.T) {
	payload := NewSigner("secret-a").Build("u1")
	_, ok := NewSigner("secret-b").Verify(payload)
	assert.False(t, ok)
}

func TestVerify_Malformed(t *testing.T) {
	s := NewSigner("secret")
	for _, payload := range []string{
		"",
		"u1",
		"dakshh-profile:u1",
		"dakshh-profile::abc",
		"dakshh-profile:u1:",
		"other-prefix:u1:abc",
		"dakshh-profile:u1:sig:extra",
	} {
		_, ok := s.Verify(payload)
		assert.False(t, ok, "payload %q must not verify", payload)
	}
}

func TestBuild_Format(t *testing.T) {
	s := NewSigner("secret")
	parts := strings.Split(s.Build("u1"), ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "dakshh-profile", parts[0])
	assert.Equal(t, "u1", parts[1])
	assert.Len(t, parts[2], 64)
}
