package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible to fall back to.
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	return hex.EncodeToString(buf)
}

func newCaseId() string {
	return "CASE-" + strings.ToUpper(randomHex(4))
}

func newFeedbackId() string {
	return "FB-" + strings.ToUpper(randomHex(4))
}

func newSessionId() string {
	return "session_" + randomHex(4)
}
