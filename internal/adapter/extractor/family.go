package extractor

import (
	"regexp"
	"strings"

	"sentra/internal/domain"
)

// Family decomposes source text for one group of languages that share delimiting rules.
type Family interface {
	// Dependencies returns the import/using lines in source order.
	Dependencies(text string) []string

	// ClassDeclaration returns the first class declaration construct, or "".
	ClassDeclaration(text string) string

	// ClassName parses the class name out of a declaration returned by ClassDeclaration.
	ClassName(declaration string) string

	// Functions returns function bodies in source order, skipping the constructor of className.
	Functions(className, text string) []string

	// FunctionName derives the name of a function returned by Functions.
	FunctionName(function string, reactLike bool) string

	// UnitContext assembles the minimal compilable context for one function.
	UnitContext(dependencies []string, declaration, function string) string
}

// Extractor dispatches structural extraction to the family registered for a language.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	families map[domain.Language]Family
	fallback Family
}

func New() *Extractor {
	java := NewJavaFamily()
	component := NewComponentFamily()

	return &Extractor{
		families: map[domain.Language]Family{
			domain.LangJava:       java,
			domain.LangCSharp:     NewCSharpFamily(),
			domain.LangPython:     NewPythonFamily(),
			domain.LangTypeScript: component,
			domain.LangTSX:        component,
		},
		fallback: java,
	}
}

// Supports reports whether lang has a registered family.
func (e *Extractor) Supports(lang domain.Language) bool {
	_, ok := e.families[lang]
	return ok
}

func (e *Extractor) family(lang domain.Language) Family {
	if f, ok := e.families[lang]; ok {
		return f
	}
	return e.fallback
}

func (e *Extractor) Dependencies(lang domain.Language, text string) []string {
	return e.family(lang).Dependencies(text)
}

func (e *Extractor) ClassDeclaration(lang domain.Language, text string) string {
	return e.family(lang).ClassDeclaration(text)
}

func (e *Extractor) ClassName(lang domain.Language, declaration string) string {
	if strings.TrimSpace(declaration) == "" {
		return ""
	}
	return e.family(lang).ClassName(declaration)
}

// Class extracts the declaration line and name of the first class in text.
func (e *Extractor) Class(lang domain.Language, text string) domain.ClassDeclaration {
	line := e.ClassDeclaration(lang, text)
	return domain.ClassDeclaration{
		Name: e.ClassName(lang, line),
		Line: line,
	}
}

func (e *Extractor) Functions(lang domain.Language, className, text string) []string {
	return e.family(lang).Functions(className, text)
}

func (e *Extractor) FunctionName(lang domain.Language, function string, reactLike bool) string {
	return e.family(lang).FunctionName(function, reactLike)
}

func (e *Extractor) UnitContext(lang domain.Language, dependencies []string, declaration, function string) string {
	return e.family(lang).UnitContext(dependencies, declaration, function)
}

// ReactLike reports whether function names in text should be derived from assignment targets.
func (e *Extractor) ReactLike(lang domain.Language, text string) bool {
	if lang != domain.LangTypeScript && lang != domain.LangTSX {
		return false
	}
	return DetectFramework(text) == domain.FrameworkReact
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
