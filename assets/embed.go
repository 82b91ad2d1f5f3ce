package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed fallback.txt
var FS embed.FS

// FallbackEquations returns the embedded pool of known-valid equations.
// Blank lines and #-comments are skipped.
func FallbackEquations() ([]string, error) {
	f, err := FS.Open("fallback.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}
