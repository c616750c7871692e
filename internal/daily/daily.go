// Package daily picks the shared "word of the day" for each category.
// The choice is a keyed hash of the date and category, so every server
// with the same salt agrees without storing anything.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/proximity/internal/category"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date and category using
// HMAC(salt, YYYY-MM-DD|category) % listLen.
func WordIndex(date time.Time, salt string, cat category.ID, listLen int) int {
	if listLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	h.Write([]byte{'|'})
	h.Write([]byte(cat))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(listLen))
}

// Target returns the daily word for cat, or "" if the list is empty.
func Target(date time.Time, salt string, cat category.ID, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[WordIndex(date, salt, cat, len(list))]
}
