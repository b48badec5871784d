// Package search turns free-text song queries into parameterised SQL
// predicates. Terms of three or more characters use PostgreSQL full-text
// search with prefix matching; shorter terms fall back to substring matching.
package search

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/BradenHooton/tunevault/internal/models"
)

// Mode reports which matching strategy produced a predicate
type Mode string

const (
	ModeFulltext Mode = "fulltext"
	ModeBasic    Mode = "basic"
)

// MinFulltextLength is the shortest term, in characters, that uses full-text mode
const MinFulltextLength = 3

// ErrEmptyQuery is returned when the term is blank after normalisation
var ErrEmptyQuery = fmt.Errorf("%w: search query is required", models.ErrValidation)

// booleanOperators are stripped from every word before it joins the expression
const booleanOperators = `+-><()~*"@`

// Predicate is a ready-to-execute song filter. Where and Relevance reference
// Args as $1..$n; callers append LIMIT/OFFSET placeholders after them.
type Predicate struct {
	Term string
	Mode Mode

	// BooleanExpression is the canonical "+word*" form of a full-text query
	BooleanExpression string
	// TSQuery is BooleanExpression rendered for to_tsquery
	TSQuery string

	Where     string
	Args      []any
	Relevance string
	OrderBy   string

	Page   int
	Limit  int
	Offset int
}

// Builder builds predicates with a configured default and maximum page size
type Builder struct {
	defaultLimit int
	maxLimit     int
}

func NewBuilder(defaultLimit, maxLimit int) *Builder {
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit < 1 || defaultLimit > maxLimit {
		defaultLimit = min(20, maxLimit)
	}
	return &Builder{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Limit clamps a requested page size. Zero means "not requested".
func (b *Builder) Limit(requested int) int {
	if requested == 0 {
		return b.defaultLimit
	}
	return max(1, min(requested, b.maxLimit))
}

// Build normalises raw and returns the predicate for the requested page
func (b *Builder) Build(raw string, page, limit int) (*Predicate, error) {
	term := Normalize(raw)
	if term == "" {
		return nil, ErrEmptyQuery
	}

	p := &Predicate{
		Term:  term,
		Page:  max(page, 1),
		Limit: b.Limit(limit),
	}
	p.Offset = Offset(p.Page, p.Limit)

	if utf8.RuneCountInString(term) >= MinFulltextLength {
		if words := booleanWords(term); len(words) > 0 {
			p.fulltext(words)
			return p, nil
		}
	}

	p.basic()
	return p, nil
}

// Normalize decodes HTML entities and trims surrounding whitespace
func Normalize(raw string) string {
	return strings.TrimSpace(html.UnescapeString(raw))
}

func booleanWords(term string) []string {
	var words []string
	for _, w := range strings.Fields(term) {
		cleaned := strings.Map(func(r rune) rune {
			if strings.ContainsRune(booleanOperators, r) {
				return -1
			}
			return r
		}, w)
		if cleaned != "" {
			words = append(words, cleaned)
		}
	}
	return words
}

func (p *Predicate) fulltext(words []string) {
	expr := make([]string, len(words))
	lexemes := make([]string, len(words))
	for i, w := range words {
		expr[i] = "+" + w + "*"
		lexemes[i] = quoteLexeme(w) + ":*"
	}

	p.Mode = ModeFulltext
	p.BooleanExpression = strings.Join(expr, " ")
	p.TSQuery = strings.Join(lexemes, " & ")
	p.Where = "search_vector @@ to_tsquery('simple', $1)"
	p.Relevance = "ts_rank(search_vector, to_tsquery('simple', $1))"
	p.Args = []any{p.TSQuery}
	p.OrderBy = "relevance DESC, play_count DESC"
}

func (p *Predicate) basic() {
	pattern := "%" + escapeLike(p.Term) + "%"

	p.Mode = ModeBasic
	p.Where = "title ILIKE $1 OR artist ILIKE $2 OR album ILIKE $3"
	p.Relevance = "0"
	p.Args = []any{pattern, pattern, pattern}
	p.OrderBy = "play_count DESC, title ASC"
}

// quoteLexeme wraps w for to_tsquery, doubling quotes and escaping backslashes
func quoteLexeme(w string) string {
	w = strings.ReplaceAll(w, `\`, `\\`)
	w = strings.ReplaceAll(w, `'`, `''`)
	return "'" + w + "'"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
