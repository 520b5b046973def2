package extractor

import (
	"regexp"

	"sentra/internal/domain"
)

type frameworkRule struct {
	re        *regexp.Regexp
	framework domain.Framework
}

// Evaluated in order; the first matching rule decides.
var frameworkRules = []frameworkRule{
	{regexp.MustCompile(`(?s)import\s+\{[^}]*\}.*@angular/`), domain.FrameworkAngular},
	{regexp.MustCompile(`@(?:Component|NgModule|Injectable|Directive|Pipe)\(`), domain.FrameworkAngular},
	{regexp.MustCompile(`\bng(?:Model|If|For)\b`), domain.FrameworkAngular},
	{regexp.MustCompile(`import\s+React|from\s+"react"|from\s+'react'`), domain.FrameworkReact},
	{regexp.MustCompile(`use(?:State|Effect|Context|Reducer|Memo)`), domain.FrameworkReact},
}

// DetectFramework recognizes Angular and React sources by their characteristic
// imports, decorators and template bindings.
func DetectFramework(text string) domain.Framework {
	for _, rule := range frameworkRules {
		if rule.re.MatchString(text) {
			return rule.framework
		}
	}
	return domain.FrameworkUnknown
}
