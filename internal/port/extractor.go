package port

import "sentra/internal/domain"

// StructuralExtractor decomposes source text into dependency lines, a class
// declaration and function spans. Malformed input yields empty results.
type StructuralExtractor interface {
	Supports(lang domain.Language) bool
	Dependencies(lang domain.Language, text string) []string
	Class(lang domain.Language, text string) domain.ClassDeclaration
	Functions(lang domain.Language, className, text string) []string
	FunctionName(lang domain.Language, function string, reactLike bool) string
	UnitContext(lang domain.Language, dependencies []string, declaration, function string) string
	ReactLike(lang domain.Language, text string) bool
}
