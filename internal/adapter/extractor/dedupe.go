package extractor

import (
	"regexp"
	"strconv"
)

const overloadSuffix = "_Overload"

var overloadRe = regexp.MustCompile(overloadSuffix + `\d+$`)

// BaseName strips a trailing _OverloadN suffix.
func BaseName(name string) string {
	return overloadRe.ReplaceAllString(name, "")
}

// Dedupe returns candidate unchanged when no earlier name shares its base name,
// otherwise the base name suffixed with _Overload and the number of earlier
// occurrences plus one. ["foo", "foo", "foo"] becomes foo, foo_Overload2, foo_Overload3.
// A number already taken by an earlier name is skipped.
func Dedupe(names []string, candidate string) string {
	base := BaseName(candidate)
	count := 0
	taken := make(map[string]bool, len(names))
	for _, name := range names {
		taken[name] = true
		if BaseName(name) == base {
			count++
		}
	}
	if count == 0 {
		return candidate
	}
	for n := count + 1; ; n++ {
		if name := base + overloadSuffix + strconv.Itoa(n); !taken[name] {
			return name
		}
	}
}
