package id

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ApplicationIDPrefix prefixes every client-facing incorporation application id.
const ApplicationIDPrefix = "INC-"

// NewApplicationID derives the public application id from the submission time
// in epoch milliseconds. Two submissions in the same millisecond collide.
func NewApplicationID(at time.Time) string {
	return ApplicationIDPrefix + strconv.FormatInt(at.UnixMilli(), 10)
}
