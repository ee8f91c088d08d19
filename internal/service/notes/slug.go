package notes

import "github.com/gosimple/slug"

// TranslitSlugifier is the default Slugifier: non-ASCII characters are
// transliterated to ASCII approximations, then the result is lowercased,
// trimmed and joined with hyphens.
type TranslitSlugifier struct{}

func (TranslitSlugifier) Slugify(title string) string {
	return slug.Make(title)
}
