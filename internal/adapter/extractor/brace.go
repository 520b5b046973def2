package extractor

import (
	"regexp"
	"strings"
)

// BraceFamily handles languages whose bodies are delimited by braces (Java, C#).
type BraceFamily struct {
	importRe    *regexp.Regexp
	classRe     *regexp.Regexp
	signatureRe *regexp.Regexp
	modifiers   map[string]bool
}

var (
	classNameRe     = regexp.MustCompile(`\bclass\s+([A-Za-z_$][\w$]*)`)
	braceCallableRe = regexp.MustCompile(`([A-Za-z_]\w*)(?:<[^<>()]*>)?\s*\(`)
)

func NewJavaFamily() *BraceFamily {
	return &BraceFamily{
		importRe: regexp.MustCompile(`(?m)^[ \t]*import\s+(?:static\s+)?[\w.]+(?:\.\*)?;[ \t]*$`),
		classRe: regexp.MustCompile(`(?:(?:public|protected|private)\s+)?(?:(?:abstract|final|static)\s+)*\bclass\s+\w+` +
			`(?:\s*<[^>{]*>)?(?:\s+extends\s+[^{\n]+?)?(?:\s+implements\s+[^{\n]+?)?\s*\{`),
		signatureRe: regexp.MustCompile(`\b(?:(?:public|protected|private|static|final|synchronized|abstract|native|default|strictfp)\s+)*` +
			`(?:<[^<>]+>\s+)?([\w.$\[\]]+(?:<[^(){};=]*>)?(?:\[\])*)\s+([A-Za-z_$][\w$]*)\s*\([^)]*\)` +
			`(?:\s*throws\s+[\w.,\s]+?)?\s*\{`),
		modifiers: wordSet("public", "protected", "private", "static", "final", "synchronized",
			"abstract", "native", "default", "strictfp"),
	}
}

func NewCSharpFamily() *BraceFamily {
	return &BraceFamily{
		importRe: regexp.MustCompile(`(?m)^[ \t]*using\s+(?:static\s+)?[\w.]+(?:\s*=\s*[\w.<>]+)?;[ \t]*$`),
		classRe: regexp.MustCompile(`(?:(?:public|protected|private|internal)\s+)?(?:(?:abstract|sealed|static|partial)\s+)*\bclass\s+\w+` +
			`(?:\s*<[^>{]*>)?(?:\s*:\s*[^{\n]+?)?\s*\{`),
		signatureRe: regexp.MustCompile(`\b(?:(?:public|protected|private|internal|static|sealed|abstract|override|virtual|extern|partial|async|unsafe|new|readonly)\s+)*` +
			`([\w.?\[\]]+(?:<[^(){};=]*>)?(?:\[\])*\??)\s+([A-Za-z_]\w*)(?:<[^<>()]*>)?\s*\([^)]*\)` +
			`(?:\s*where\s+[^{;]+?)?\s*(?:\{|=>)`),
		modifiers: wordSet("public", "protected", "private", "internal", "static", "sealed", "abstract",
			"override", "virtual", "extern", "partial", "async", "unsafe", "new", "readonly"),
	}
}

func (f *BraceFamily) Dependencies(text string) []string {
	return findAll(f.importRe, text)
}

func (f *BraceFamily) ClassDeclaration(text string) string {
	return strings.TrimSpace(f.classRe.FindString(text))
}

func (f *BraceFamily) ClassName(declaration string) string {
	if m := classNameRe.FindStringSubmatch(declaration); m != nil {
		return m[1]
	}
	return ""
}

func (f *BraceFamily) Functions(className, text string) []string {
	return scanSpans(text, []*regexp.Regexp{f.signatureRe}, func(groups []string) verdict {
		typ, name := groups[1], groups[2]
		if isKeyword(typ) || isKeyword(name) {
			return retry
		}
		if name == className {
			return skip
		}
		return keep
	})
}

func (f *BraceFamily) FunctionName(function string, _ bool) string {
	sig := function
	if i := strings.IndexAny(sig, "{"); i >= 0 {
		sig = sig[:i]
	}
	if i := strings.Index(sig, "=>"); i >= 0 {
		sig = sig[:i]
	}
	for _, m := range braceCallableRe.FindAllStringSubmatch(sig, -1) {
		if name := m[1]; !f.modifiers[name] && !isKeyword(name) {
			return name
		}
	}
	return ""
}

func (f *BraceFamily) UnitContext(dependencies []string, declaration, function string) string {
	var sb strings.Builder
	if len(dependencies) > 0 {
		sb.WriteString(strings.Join(dependencies, "\n"))
		sb.WriteString("\n")
	}
	if declaration == "" {
		sb.WriteString(function)
		return sb.String()
	}
	sb.WriteString(declaration)
	sb.WriteString("\n    ")
	sb.WriteString(function)
	sb.WriteString("\n}")
	return sb.String()
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
