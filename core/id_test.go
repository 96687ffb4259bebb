package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChallenge(t *testing.T) {
	seen := make(map[rune]int)
	for i := 0; i < 2000; i++ {
		c := newChallenge()
		require.Len(t, c, 8)
		for _, r := range c {
			require.True(t, strings.ContainsRune(challengeAlphabet, r), "unexpected %q in %q", r, c)
			seen[r]++
		}
	}
	// 16000 draws over 36 symbols: every symbol shows up.
	assert.Len(t, seen, len(challengeAlphabet))
}

func TestNewAuthToken(t *testing.T) {
	a, b := newAuthToken(), newAuthToken()
	assert.True(t, strings.HasPrefix(a, "NDS"))
	assert.Len(t, a, 3+128)
	assert.NotEqual(t, a, b)
}
