package charsheet

import (
	"fmt"
	"regexp"
	"strconv"
)

// Host is the character sheet host every supported link must live on.
const Host = "https://www.dndbeyond.com/"

// CharacterSheet maps skill labels, exactly as rendered on the sheet,
// to their modifiers. It is built fresh for every request and never
// cached.
type CharacterSheet map[string]int

// Ref identifies a character sheet by its numeric id.
type Ref struct {
	ID int64
}

// URL renders the canonical fetch URL for the referenced sheet.
func (r Ref) URL() string {
	return fmt.Sprintf("%scharacters/%d", Host, r.ID)
}

// RefPatterns holds the compiled URL matchers for character sheet
// links. Construct it once at startup and pass it by reference, there
// is no global table.
type RefPatterns struct {
	patterns []*regexp.Regexp
}

func NewRefPatterns() *RefPatterns {
	return &RefPatterns{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`^https://www\.dndbeyond\.com/characters/(\d+)(?:/[^/]*)?$`),
			regexp.MustCompile(`^https://www\.dndbeyond\.com/profile/[^/]+/characters/(\d+)(?:/[^/]*)?$`),
		},
	}
}

// Parse extracts a Ref from a character sheet URL. URLs that match no
// known pattern fail with ErrInvalidRef.
func (p *RefPatterns) Parse(rawURL string) (Ref, error) {
	for _, pattern := range p.patterns {
		groups := pattern.FindStringSubmatch(rawURL)
		if groups == nil {
			continue
		}
		id, err := strconv.ParseInt(groups[1], 10, 64)
		if err != nil {
			continue
		}
		return Ref{ID: id}, nil
	}
	return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, rawURL)
}
