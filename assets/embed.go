// assets/embed.go
//
// Embedded files shipped with the binary:
//   - words.txt: word catalog, one `[Category]` header per language followed by its words.
//   - static/:   stylesheet and browser script served under /static/.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed words.txt static
var FS embed.FS

// WordsFile returns the raw embedded word catalog.
func WordsFile() (string, error) {
	b, err := FS.ReadFile("words.txt")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Static returns the static/ subtree for http.FileServer.
func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		// static is embedded at build time; Sub only fails on an invalid name.
		panic(err)
	}
	return sub
}

// Lines splits s into trimmed, non-empty lines, skipping `#` comments.
func Lines(s string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		out = append(out, l)
	}
	return out
}
