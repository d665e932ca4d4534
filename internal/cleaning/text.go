package cleaning

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/osanai/scrub/internal/dataframe"
	"github.com/osanai/scrub/internal/series"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// abbreviation expansions, applied case-insensitively in order. Dotted
// forms come after plain forms so both spellings expand.
var abbreviations = []struct {
	abbr string
	full string
}{
	{"usa", "United States"},
	{"uk", "United Kingdom"},
	{"u.s.a.", "United States"},
	{"u.k.", "United Kingdom"},
}

// Column-name hints that select title case over sentence case.
var titleCaseHints = []string{"name", "title", "category"}

// normalizeText standardizes every string column: surrounding whitespace
// trimmed, internal whitespace runs collapsed, known abbreviations
// expanded, and case normalized by a column-name heuristic.
func (e *Engine) normalizeText(df *dataframe.DataFrame, report *Report) *dataframe.DataFrame {
	for _, name := range df.Columns() {
		s, _ := df.Column(name)
		if s.DataType().ID() != arrow.STRING {
			continue
		}

		values, valid, _ := df.StringColumn(name)
		normalized := make([]string, len(values))
		changed := false
		for i, v := range values {
			if !valid[i] {
				continue
			}
			normalized[i] = normalizeValue(v, name)
			if normalized[i] != v {
				changed = true
			}
		}
		if !changed {
			continue
		}

		df = df.WithColumn(series.NewWithNulls(name, normalized, valid, e.mem))
		report.addStep("Normalized text in '" + name + "'")
	}
	return df
}

func normalizeValue(v, column string) string {
	out := strings.TrimSpace(v)
	out = whitespaceRun.ReplaceAllString(out, " ")
	for _, a := range abbreviations {
		out = replaceFold(out, a.abbr, a.full)
	}
	if wantsTitleCase(column) {
		return titleCase(out)
	}
	return sentenceCase(out)
}

func wantsTitleCase(column string) bool {
	lower := strings.ToLower(column)
	for _, hint := range titleCaseHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// replaceFold replaces every case-insensitive occurrence of old with repl.
func replaceFold(s, old, repl string) string {
	if old == "" {
		return s
	}
	lower := strings.ToLower(s)
	target := strings.ToLower(old)

	var b strings.Builder
	for {
		i := strings.Index(lower, target)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(repl)
		s = s[i+len(old):]
		lower = lower[i+len(target):]
	}
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		words[i] = capitalizeWord(w)
	}
	return strings.Join(words, " ")
}

// sentenceCase upper-cases the first letter and lower-cases the rest.
func sentenceCase(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func capitalizeWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return w
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
