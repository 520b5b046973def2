package extractor

import (
	"regexp"
	"strings"
)

// IndentFamily handles languages whose bodies are delimited by indentation (Python).
type IndentFamily struct {
	importRe *regexp.Regexp
	classRe  *regexp.Regexp
	defRe    *regexp.Regexp
	nameRe   *regexp.Regexp
	skipped  map[string]bool
}

func NewPythonFamily() *IndentFamily {
	return &IndentFamily{
		importRe: regexp.MustCompile(`(?m)^[ \t]*(?:import[ \t]+[\w.]+(?:[ \t]+as[ \t]+\w+)?(?:[ \t]*,[ \t]*[\w.]+(?:[ \t]+as[ \t]+\w+)?)*` +
			`|from[ \t]+[\w.]+[ \t]+import[ \t]+(?:\([^)]*\)|[\w*, \t]+))`),
		classRe: regexp.MustCompile(`(?m)^[ \t]*class[ \t]+[A-Za-z_]\w*[^\n]*`),
		defRe:   regexp.MustCompile(`^([ \t]*)(?:async[ \t]+)?def[ \t]+([A-Za-z_]\w*)[ \t]*\(`),
		nameRe:  regexp.MustCompile(`\bdef[ \t]+([A-Za-z_]\w*)`),
		skipped: wordSet("__init__"),
	}
}

func (f *IndentFamily) Dependencies(text string) []string {
	return findAll(f.importRe, text)
}

func (f *IndentFamily) ClassDeclaration(text string) string {
	return strings.TrimSpace(f.classRe.FindString(text))
}

func (f *IndentFamily) ClassName(declaration string) string {
	if m := classNameRe.FindStringSubmatch(declaration); m != nil {
		return m[1]
	}
	return ""
}

// Functions returns each def together with the lines indented deeper than it.
// A body ends at the first non-blank line indented at or above the def.
func (f *IndentFamily) Functions(_, text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []string

	for i := 0; i < len(lines); {
		m := f.defRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		indent := indentWidth(m[1])
		last := headerEnd(lines, i)
		for end := last + 1; end < len(lines); end++ {
			line := lines[end]
			if strings.TrimSpace(line) == "" {
				continue
			}
			if indentWidth(line) <= indent {
				break
			}
			last = end
		}

		if !f.skipped[m[2]] {
			out = append(out, strings.Join(lines[i:last+1], "\n"))
		}
		i = last + 1
	}

	return out
}

func (f *IndentFamily) FunctionName(function string, _ bool) string {
	if m := f.nameRe.FindStringSubmatch(function); m != nil {
		return m[1]
	}
	return ""
}

func (f *IndentFamily) UnitContext(dependencies []string, _ string, function string) string {
	if len(dependencies) == 0 {
		return function
	}
	return strings.Join(dependencies, "\n") + "\n" + function
}

func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

// headerEnd returns the line closing a def header that may span several lines.
func headerEnd(lines []string, start int) int {
	depth := 0
	for i := start; i < len(lines); i++ {
		depth += strings.Count(lines[i], "(") - strings.Count(lines[i], ")")
		if depth <= 0 {
			return i
		}
	}
	return len(lines) - 1
}
