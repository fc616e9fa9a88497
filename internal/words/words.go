// internal/words/words.go
//
// Word catalog management for the game engine.
//
// Responsibilities:
//   - Load the word catalog from a file named by WORDS_FILE, or fall back to the
//     embedded assets/words.txt.
//   - Tag every word with the index of its category (language).
//   - Supply RandomWord, WordAt, FarewellText and Stats.
//
// Catalog format:
//
//	[JavaScript]
//	closure
//	promise
//
// Constraints:
//   • Words must be lowercase a–z (lines are lowercased first; others are skipped).
//   • Section names must match a category name exactly.
//   • Initialization is run once (sync.Once).

package words

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/assembly-endgame/assets"
)

// Entry is one catalog word and the index of its category.
type Entry struct {
	Word     string
	Category int
}

// Catalog is a loaded word list over the fixed category list.
// It satisfies game.Source.
type Catalog struct {
	categories []Category
	entries    []Entry
}

var (
	initOnce   sync.Once
	defaultCat *Catalog
	initialErr error
)

// Init loads the default catalog exactly once, from path when it is set
// (config WORDS_FILE) and from the embedded list otherwise.
// Returns an error if the catalog ends up empty.
func Init(path string) error {
	initOnce.Do(func() {
		var src string
		if path != "" {
			b, err := os.ReadFile(path)
			if err != nil {
				initialErr = fmt.Errorf("words: read %s: %w", path, err)
				return
			}
			src = string(b)
		} else {
			s, err := assets.WordsFile()
			if err != nil {
				initialErr = fmt.Errorf("words: embedded catalog: %w", err)
				return
			}
			src = s
		}
		defaultCat, initialErr = Parse(src)
	})
	return initialErr
}

// Default returns the catalog loaded by Init (nil before a successful Init).
func Default() *Catalog { return defaultCat }

// Parse builds a catalog from the sectioned text format.
func Parse(src string) (*Catalog, error) {
	c := &Catalog{categories: Categories()}
	current := -1
	for _, line := range assets.Lines(src) {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			current = categoryIndex(name)
			if current < 0 {
				return nil, fmt.Errorf("words: unknown category %q", name)
			}
			continue
		}
		if current < 0 {
			return nil, fmt.Errorf("words: word %q before any category header", line)
		}
		w := strings.ToLower(line)
		if !isAlpha(w) {
			log.Debug().Str("word", line).Msg("skipping non a-z word")
			continue
		}
		c.entries = append(c.entries, Entry{Word: w, Category: current})
	}
	if len(c.entries) == 0 {
		return nil, errors.New("words: catalog is empty")
	}
	return c, nil
}

// isAlpha reports whether s is non-empty and all lowercase ASCII letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Categories returns the category list the catalog was built over.
func (c *Catalog) Categories() []Category { return c.categories }

// RandomWord returns a cryptographically random word and its category index.
func (c *Catalog) RandomWord() (string, int) {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(c.entries))))
	if err != nil {
		e := c.entries[0]
		return e.Word, e.Category
	}
	e := c.entries[nBig.Int64()]
	return e.Word, e.Category
}

// WordAt returns the i-th catalog entry (i is taken modulo Len).
func (c *Catalog) WordAt(i int) (string, int) {
	n := len(c.entries)
	e := c.entries[((i%n)+n)%n]
	return e.Word, e.Category
}

// Len is the number of words in the catalog.
func (c *Catalog) Len() int { return len(c.entries) }

// FarewellText delegates to the package-level farewell generator.
func (c *Catalog) FarewellText(name string) string { return FarewellText(name) }

// Stats returns counts of loaded words per category name.
func (c *Catalog) Stats() map[string]int {
	out := make(map[string]int, len(c.categories))
	for _, e := range c.entries {
		out[c.categories[e.Category].Name]++
	}
	return out
}
