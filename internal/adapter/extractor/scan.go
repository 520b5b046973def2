package extractor

import (
	"regexp"
	"strings"
)

type verdict int

const (
	keep verdict = iota
	// skip drops the match together with its body.
	skip
	// retry drops the match and resumes scanning after the word it starts with.
	retry
)

// scanSpans finds the earliest match among rules, extends it over the body its
// opening delimiter introduces and repeats after that body. Every rule must end
// right after the opening delimiter: '{', '(' or "=>".
func scanSpans(text string, rules []*regexp.Regexp, judge func(groups []string) verdict) []string {
	var spans []string
	pos := 0

	for pos < len(text) {
		start, end := -1, -1
		var groups []string

		for _, re := range rules {
			loc := re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				continue
			}
			if start == -1 || pos+loc[0] < start {
				start, end = pos+loc[0], pos+loc[1]
				groups = submatches(text[pos:], loc)
			}
		}
		if start < 0 {
			break
		}

		stop := closeBody(text, end)
		if stop < 0 {
			pos = end
			continue
		}

		switch judge(groups) {
		case keep:
			spans = append(spans, strings.TrimSpace(text[start:stop]))
			pos = stop
		case skip:
			pos = stop
		case retry:
			pos = start + 1
			for pos < len(text) && isWordByte(text[pos]) {
				pos++
			}
		}
	}

	return spans
}

func submatches(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}

// closeBody returns the index just past the body opened at text[end-1], or -1.
func closeBody(text string, end int) int {
	if end <= 0 || end > len(text) {
		return -1
	}
	switch text[end-1] {
	case '{':
		return matchDelim(text, end-1, '{', '}')
	case '(':
		stop := matchDelim(text, end-1, '(', ')')
		if stop < 0 {
			return -1
		}
		if next := skipBlank(text, stop); next < len(text) && text[next] == ';' {
			return next + 1
		}
		return stop
	case '>':
		next := skipBlank(text, end)
		if next < len(text) && (text[next] == '{' || text[next] == '(') {
			return closeBody(text, next+1)
		}
		if semi := strings.IndexByte(text[end:], ';'); semi >= 0 {
			return end + semi + 1
		}
	}
	return -1
}

// matchDelim balances open/close from text[at], skipping literals and comments.
func matchDelim(text string, at int, open, close byte) int {
	depth := 0
	for i := at; i < len(text); i++ {
		switch c := text[i]; c {
		case '"', '\'', '`':
			i = skipQuoted(text, i)
		case '/':
			if i+1 < len(text) && text[i+1] == '/' {
				nl := strings.IndexByte(text[i:], '\n')
				if nl < 0 {
					return -1
				}
				i += nl
			} else if i+1 < len(text) && text[i+1] == '*' {
				endComment := strings.Index(text[i+2:], "*/")
				if endComment < 0 {
					return -1
				}
				i += endComment + 3
			}
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// skipQuoted returns the index of the quote closing the literal opened at text[at].
func skipQuoted(text string, at int) int {
	quote := text[at]
	for i := at + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return i
		case '\n':
			if quote != '`' {
				return i
			}
		}
	}
	return len(text)
}

func skipBlank(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}

var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "foreach": true, "while": true, "do": true,
	"switch": true, "case": true, "catch": true, "try": true, "finally": true,
	"using": true, "lock": true, "return": true, "new": true, "throw": true,
	"await": true, "yield": true, "typeof": true, "sizeof": true, "nameof": true,
	"function": true, "super": true, "this": true, "with": true,
}

func isKeyword(word string) bool {
	return keywords[word]
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
