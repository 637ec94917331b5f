package domain

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewBookingID returns a human-debuggable identifier of the form
// BKG_<millis base36>_<6 random base36 chars>, uppercased. Collisions are
// practically impossible but the storage layer still retries on the unique
// constraint.
func NewBookingID() string {
	return newID("BKG")
}

func newID(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	var sb strings.Builder
	for i := 0; i < 6; i++ {
		sb.WriteByte(idAlphabet[rand.Intn(len(idAlphabet))])
	}

	return strings.ToUpper(prefix + "_" + ts + "_" + sb.String())
}
