// Package lexicon classifies free-text steps into coarse categories using a
// configurable keyword table.
//
// Matching is a heuristic run on lower-cased, accent-stripped words. A plain
// keyword must equal a whole word, so "call" does not match "calle". A
// keyword ending in "*" matches any word it starts, so "llamar*" matches
// "Llamarle al banco". Multi-word keywords must appear as a whole phrase.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Category is a coarse classification of a step.
type Category string

const (
	CategoryExternalInteraction Category = "external_interaction"
	CategoryLightCognitive      Category = "light_cognitive"
	CategoryPhysical            Category = "physical"
	CategoryUnknown             Category = "unknown"
)

//go:embed default.yaml
var defaultTable []byte

type file struct {
	Categories []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
}

type entry struct {
	category Category
	words    map[string]bool
	prefixes []string
	phrases  []string
}

// Lexicon is an ordered keyword table. It is immutable after construction
// and safe for concurrent use.
type Lexicon struct {
	entries []entry
}

// Default returns the built-in bilingual (es/en) table.
func Default() *Lexicon {
	l, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("lexicon: invalid built-in table: %v", err))
	}
	return l
}

// Load reads a YAML table from path.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse builds a Lexicon from YAML.
func Parse(data []byte) (*Lexicon, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("lexicon has no categories")
	}

	l := &Lexicon{}
	seen := make(map[Category]bool)
	for _, c := range f.Categories {
		name := Category(strings.TrimSpace(c.Name))
		if name == "" {
			return nil, fmt.Errorf("lexicon category without name")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate lexicon category %q", name)
		}
		seen[name] = true

		e := entry{category: name, words: make(map[string]bool)}
		for _, kw := range c.Keywords {
			kw = strings.TrimSpace(kw)
			prefix := strings.HasSuffix(kw, "*")
			folded := strings.Join(words(Fold(strings.TrimSuffix(kw, "*"))), " ")
			switch {
			case folded == "":
				continue
			case strings.Contains(folded, " "):
				if prefix {
					return nil, fmt.Errorf("lexicon phrase %q cannot be a prefix", kw)
				}
				e.phrases = append(e.phrases, folded)
			case prefix:
				e.prefixes = append(e.prefixes, folded)
			default:
				e.words[folded] = true
			}
		}
		l.entries = append(l.entries, e)
	}

	return l, nil
}

// Categories returns the table's categories in match order.
func (l *Lexicon) Categories() []Category {
	out := make([]Category, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.category)
	}
	return out
}

// Matches reports whether text hits any keyword of category c.
func (l *Lexicon) Matches(text string, c Category) bool {
	tokens := words(Fold(text))
	for _, e := range l.entries {
		if e.category == c {
			return e.matches(tokens)
		}
	}
	return false
}

// Classify returns the first category whose keywords hit text, or
// CategoryUnknown.
func (l *Lexicon) Classify(text string) Category {
	tokens := words(Fold(text))
	for _, e := range l.entries {
		if e.matches(tokens) {
			return e.category
		}
	}
	return CategoryUnknown
}

func (e entry) matches(tokens []string) bool {
	for _, tok := range tokens {
		if e.words[tok] {
			return true
		}
		for _, p := range e.prefixes {
			if strings.HasPrefix(tok, p) {
				return true
			}
		}
	}

	if len(e.phrases) == 0 {
		return false
	}
	joined := " " + strings.Join(tokens, " ") + " "
	for _, p := range e.phrases {
		if strings.Contains(joined, " "+p+" ") {
			return true
		}
	}
	return false
}

// Fold lower-cases s and strips diacritics ("Reunión" -> "reunion").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
