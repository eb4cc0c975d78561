package language

import "strings"

// Target is one entry of the fixed translation target enumeration.
type Target struct {
	Name   string // English name shown in the CLI
	Native string // Name used by the original desktop menu
	Code   string // Code passed to the translation service
}

// DefaultTargetCode is used when a target name is not part of the enumeration.
const DefaultTargetCode = "zh"

var targets = []Target{
	{Name: "Chinese", Native: "中文", Code: "zh"},
	{Name: "English", Native: "英文", Code: "en"},
	{Name: "Korean", Native: "韩文", Code: "ko"},
	{Name: "Japanese", Native: "日文", Code: "ja"},
}

// Targets returns the supported translation targets in menu order.
func Targets() []Target {
	return append([]Target(nil), targets...)
}

// TargetNames returns the English names of the supported targets.
func TargetNames() []string {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name)
	}
	return names
}

// DefaultTarget is the target selected at startup.
func DefaultTarget() Target {
	return targets[0]
}

// LookupTarget matches a target by English name, native name, or code.
func LookupTarget(name string) (Target, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Target{}, false
	}
	for _, t := range targets {
		if strings.EqualFold(name, t.Name) || name == t.Native || strings.EqualFold(name, t.Code) {
			return t, true
		}
	}
	return Target{}, false
}

// TargetCode maps a target name to its service code, falling back to
// DefaultTargetCode for names outside the enumeration.
func TargetCode(name string) string {
	if t, ok := LookupTarget(name); ok {
		return t.Code
	}
	return DefaultTargetCode
}
