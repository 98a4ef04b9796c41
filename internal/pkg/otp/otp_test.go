package otp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SixDigits(t *testing.T) {
	re := regexp.MustCompile(`^[1-9]\d{5}$`)
	for i := 0; i < 50; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestHash_Deterministic(t *testing.T) {
	assert.Equal(t, Hash("123456"), Hash("123456"))
	assert.NotEqual(t, Hash("123456"), Hash("123457"))
	assert.Len(t, Hash("123456"), 64)
}
