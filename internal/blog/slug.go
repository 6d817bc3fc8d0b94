package blog

import (
	"math/rand"
	"strings"

	"github.com/gosimple/slug"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// slugify derives a URL-safe, lowercase, hyphenated slug from a title.
func slugify(title string) string {
	return slug.Make(title)
}

// withSuffix appends a short random disambiguator, used when the derived
// slug is already taken.
func withSuffix(s string) string {
	var b strings.Builder
	b.WriteString(s)
	b.WriteByte('-')
	for i := 0; i < 5; i++ {
		b.WriteByte(suffixAlphabet[rand.Intn(len(suffixAlphabet))])
	}
	return b.String()
}
