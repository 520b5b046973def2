package domain

import "strings"

// Language is the tag of a supported source language, taken from the file extension.
type Language string

const (
	LangJava       Language = "java"
	LangCSharp     Language = "cs"
	LangPython     Language = "py"
	LangTypeScript Language = "ts"
	LangTSX        Language = "tsx"
)

// ParseLanguage maps a file extension (with or without the dot) to a Language.
func ParseLanguage(ext string) (Language, bool) {
	lang := Language(strings.ToLower(strings.TrimPrefix(ext, ".")))
	switch lang {
	case LangJava, LangCSharp, LangPython, LangTypeScript, LangTSX:
		return lang, true
	}
	return "", false
}

// Framework is a front-end framework signature detected in component-style sources.
type Framework string

const (
	FrameworkAngular Framework = "Angular"
	FrameworkReact   Framework = "React"
	FrameworkUnknown Framework = "Unknown"
)

// SourceUnit is one source file submitted for generation.
type SourceUnit struct {
	Lang          Language
	Text          string
	Path          string
	WorkspaceRoot string
}

type ClassDeclaration struct {
	Name string
	Line string
}

// CodeUnit is an extracted function or method.
type CodeUnit struct {
	ClassName string
	Text      string
	Name      string
	Index     int
}

type ResolutionState int

const (
	Unresolved ResolutionState = iota
	SameFile
	FoundInWorkspace
	FoundByContentScan
	NotFound
)

func (s ResolutionState) String() string {
	switch s {
	case SameFile:
		return "same_file"
	case FoundInWorkspace:
		return "found_in_workspace"
	case FoundByContentScan:
		return "found_by_content_scan"
	case NotFound:
		return "not_found"
	}
	return "unresolved"
}

// BaseClassLink records the ancestor reported for a class and how its source was located.
type BaseClassLink struct {
	ClassName    string
	AncestorName string
	AncestorPath string
	State        ResolutionState
}

// Category is one of the fixed test intents generated per unit.
type Category string

const (
	CategoryHappy          Category = "Happy"
	CategoryNegative       Category = "Negative"
	CategoryEdge           Category = "Edge"
	CategoryThrowException Category = "ThrowException"
)

// Categories returns the categories in generation order.
func Categories() []Category {
	return []Category{CategoryHappy, CategoryNegative, CategoryEdge, CategoryThrowException}
}

// WireName is the category label sent to the generation service.
func (c Category) WireName() string {
	if c == CategoryThrowException {
		return "Throw Exception"
	}
	return string(c)
}

type GenerationTask struct {
	Key            string
	UnitName       string
	Context        string
	Category       Category
	GeneratedTests string
}

type GenerationResult struct {
	UnitTest       string `json:"unit_test"`
	GeneratedTests string `json:"generated_tests"`
}

// Credentials is the persisted session record.
type Credentials struct {
	UserToken   string `json:"user_token"`
	AccessToken string `json:"access_token"`
}

type RunState string

const (
	RunCompleted RunState = "completed"
	RunCancelled RunState = "cancelled"
	RunFailed    RunState = "failed"
)

// Artifact addresses one generated test file:
// {ProjectDir}/{output dir}/{SourceBase}/{Category}/{UnitName}.{Ext}
type Artifact struct {
	ProjectDir string
	SourceBase string
	Category   Category
	UnitName   string
	Ext        string
	Content    string
}
