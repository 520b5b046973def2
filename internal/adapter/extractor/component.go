package extractor

import (
	"regexp"
	"strings"
)

// ComponentFamily handles TypeScript sources, where units are class methods,
// function declarations and arrow-function components.
type ComponentFamily struct {
	importRe *regexp.Regexp
	classRe  *regexp.Regexp
	rules    []*regexp.Regexp
}

var (
	identRe     = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	topLevelDef = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:async\s+)?(?:function\b|const\b|let\b|var\b)`)
)

func NewComponentFamily() *ComponentFamily {
	return &ComponentFamily{
		importRe: regexp.MustCompile(`(?m)^[ \t]*import\b(?:[^;'"]*?\bfrom)?[ \t]*['"][^'"\n]+['"][ \t]*;?`),
		classRe: regexp.MustCompile(`(?:export[ \t]+)?(?:default[ \t]+)?(?:abstract[ \t]+)?\bclass[ \t]+[A-Za-z_$][\w$]*` +
			`(?:<[^>{]*>)?(?:\s+extends\s+[^{\n]+?)?(?:\s+implements\s+[^{\n]+?)?\s*\{`),
		rules: []*regexp.Regexp{
			// function declarations
			regexp.MustCompile(`(?m)^[ \t]*(?:export[ \t]+)?(?:default[ \t]+)?(?:async[ \t]+)?function\*?[ \t]*([A-Za-z_$][\w$]*)?` +
				`[ \t]*(?:<[^>\n]*>)?\([^)]*\)[^{;\n]*\{`),
			// const Name = (...) => ...
			regexp.MustCompile(`(?m)^[ \t]*(?:export[ \t]+)?(?:default[ \t]+)?(?:const|let|var)[ \t]+([A-Za-z_$][\w$]*)[^=\n]*=[ \t]*` +
				`(?:async[ \t]+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)(?:[ \t]*:[^=\n]+)?[ \t]*=>`),
			// class property arrows: handle = (...) => ...
			regexp.MustCompile(`(?m)^[ \t]*(?:(?:public|private|protected|static|readonly)[ \t]+)*([A-Za-z_$][\w$]*)[ \t]*(?::[^=\n]+)?=[ \t]*` +
				`(?:async[ \t]+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)(?:[ \t]*:[^=\n]+)?[ \t]*=>`),
			// class methods
			regexp.MustCompile(`(?m)^[ \t]*(?:(?:public|private|protected|static|async|readonly|override|abstract|get|set)[ \t]+)*` +
				`([A-Za-z_$][\w$]*)[ \t]*(?:<[^>\n]*>)?\([^)]*\)(?:[ \t]*:[^{;=\n]+)?[ \t]*\{`),
		},
	}
}

func (f *ComponentFamily) Dependencies(text string) []string {
	return findAll(f.importRe, text)
}

func (f *ComponentFamily) ClassDeclaration(text string) string {
	return strings.TrimSpace(f.classRe.FindString(text))
}

// ClassName takes the token following the class keyword.
func (f *ComponentFamily) ClassName(declaration string) string {
	parts := strings.Fields(declaration)
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] != "class" {
			continue
		}
		name := parts[i+1]
		if cut := strings.IndexAny(name, "<{("); cut >= 0 {
			name = name[:cut]
		}
		return name
	}
	return ""
}

func (f *ComponentFamily) Functions(className, text string) []string {
	return scanSpans(text, f.rules, func(groups []string) verdict {
		name := groups[1]
		if isKeyword(name) {
			return retry
		}
		if name == "constructor" || name != "" && name == className {
			return skip
		}
		return keep
	})
}

// FunctionName prefers the assignment target for React-style sources, where
// components are bound to constants, and the declared name otherwise.
func (f *ComponentFamily) FunctionName(function string, reactLike bool) string {
	if reactLike {
		if name := assignmentTarget(function); name != "" {
			return name
		}
	}
	if name := declaredName(function); name != "" {
		return name
	}
	return assignmentTarget(function)
}

func (f *ComponentFamily) UnitContext(dependencies []string, declaration, function string) string {
	var sb strings.Builder
	if len(dependencies) > 0 {
		sb.WriteString(strings.Join(dependencies, "\n"))
		sb.WriteString("\n")
	}
	if declaration == "" || topLevelDef.MatchString(function) {
		sb.WriteString(function)
		return sb.String()
	}
	sb.WriteString(declaration)
	sb.WriteString("\n    ")
	sb.WriteString(function)
	sb.WriteString("\n}")
	return sb.String()
}

func assignmentTarget(function string) string {
	eq := strings.Index(function, "=")
	if eq < 0 {
		return ""
	}
	if open := strings.IndexAny(function, "({"); open >= 0 && open < eq {
		return ""
	}
	head := function[:eq]
	if colon := strings.Index(head, ":"); colon >= 0 {
		head = head[:colon]
	}
	return lastIdent(head)
}

func declaredName(function string) string {
	open := strings.Index(function, "(")
	if open < 0 {
		return ""
	}
	head := function[:open]
	if strings.Contains(head, "=") {
		return ""
	}
	if lt := strings.Index(head, "<"); lt >= 0 {
		head = head[:lt]
	}
	return lastIdent(strings.TrimRight(head, "* \t"))
}

func lastIdent(head string) string {
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return ""
	}
	name := strings.TrimPrefix(fields[len(fields)-1], "*")
	if !identRe.MatchString(name) || isKeyword(name) {
		return ""
	}
	return name
}
