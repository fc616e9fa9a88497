// Package daily picks the word of the day: every player starting a "daily"
// game on the same UTC date gets the same word.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Catalog is an indexable word list (words.Catalog).
type Catalog interface {
	Len() int
	WordAt(i int) (word string, category int)
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Word returns the word of the day and its category.
func Word(c Catalog, date time.Time, salt string) (string, int) {
	return c.WordAt(WordIndex(date, salt, c.Len()))
}
