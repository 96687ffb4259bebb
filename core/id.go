package core

import (
	"crypto/rand"
	"encoding/base64"
)

const challengeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newAuthToken returns an opaque NAS token. crypto/rand.Read does not fail on supported platforms.
func newAuthToken() string {
	b := make([]byte, 96)
	_, _ = rand.Read(b)
	return "NDS" + base64.RawURLEncoding.EncodeToString(b)
}

// newChallenge returns an 8 character challenge string. Bytes at or above the
// largest multiple of the alphabet size are discarded so every character is
// equally likely.
func newChallenge() string {
	const limit = 256 - 256%len(challengeAlphabet)
	out := make([]byte, 0, 8)
	buf := make([]byte, 16)
	for len(out) < cap(out) {
		_, _ = rand.Read(buf)
		for _, v := range buf {
			if int(v) >= limit {
				continue
			}
			out = append(out, challengeAlphabet[int(v)%len(challengeAlphabet)])
			if len(out) == cap(out) {
				break
			}
		}
	}
	return string(out)
}
