// Package naming derives identifiers, titles and file names from source names.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSlug is used when a name contains nothing slug-safe.
const DefaultSlug = "project"

var (
	slugUnsafe     = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparators = regexp.MustCompile(`\s+`)
	repeatedDash   = regexp.MustCompile(`-+`)

	unsafeFileChars    = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)
	repeatedUnderscore = regexp.MustCompile(`_+`)

	leadingIndex = regexp.MustCompile(`^\d+_?\s*`)
)

// Slug converts a directory name into a lowercase, URL-safe token. Whitespace
// becomes a hyphen and everything else outside [a-z0-9-] is dropped, so
// "6_KIAWAH" yields "6kiawah". Different names may produce the same slug; see Registry.
func Slug(name string) string {
	s := strings.ToLower(name)
	s = slugUnsafe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugSeparators.ReplaceAllString(s, "-")
	s = repeatedDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return DefaultSlug
	}
	return s
}

// Title turns a directory name like "3_BEACH_house" into "Beach House".
func Title(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		parts[i] = capitalize(part)
	}
	title := strings.Join(parts, " ")
	title = strings.TrimSpace(leadingIndex.ReplaceAllString(title, ""))
	if title == "" {
		return name
	}
	return title
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// SanitizeBase strips the extension from fileName and replaces every character
// outside [A-Za-z0-9_-] with an underscore, collapsing repeats. It never returns "".
func SanitizeBase(fileName string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = repeatedUnderscore.ReplaceAllString(name, "_")
	if name == "" || name == "_" {
		return "image"
	}
	return name
}

// Registry hands out unique tokens. The first claim of a token keeps it,
// later claims get a numeric suffix joined with sep.
type Registry struct {
	sep  string
	seen map[string]bool
}

// NewRegistry creates a Registry that joins suffixes with sep ("-" for slugs, "_" for file names).
func NewRegistry(sep string) *Registry {
	return &Registry{sep: sep, seen: make(map[string]bool)}
}

// Claim returns a unique token derived from token and whether it had to be changed.
func (r *Registry) Claim(token string) (string, bool) {
	if !r.seen[token] {
		r.seen[token] = true
		return token, false
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s%s%d", token, r.sep, n)
		if !r.seen[candidate] {
			r.seen[candidate] = true
			return candidate, true
		}
	}
}

// NaturalLess orders file names by their leading number when both have one
// ("2.jpg" before "10.jpg"), falling back to case-insensitive then byte order.
func NaturalLess(a, b string) bool {
	na, aok := leadingNumber(a)
	nb, bok := leadingNumber(b)
	if aok && bok && na != nb {
		return na < nb
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

func leadingNumber(s string) (uint64, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
