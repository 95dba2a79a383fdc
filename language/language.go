package language

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language is a single target-language registry entry.
type Language struct {
	// Code is the py2many language code, e.g. "cpp" or "rust".
	// It doubles as the transpiler flag name (--cpp, --rust).
	Code string

	// DisplayName is the human-readable name, e.g. "C++".
	DisplayName string

	// Ext is the file extension py2many gives the generated output
	// file, including the leading dot.
	Ext string
}

// registry lists every target py2many supports. Order here is the order
// list_supported_languages reports. DisplayName is set only where it is
// not the title-cased code.
var registry = []Language{
	{Code: "cpp", DisplayName: "C++", Ext: ".cpp"},
	{Code: "rust", Ext: ".rs"},
	{Code: "go", Ext: ".go"},
	{Code: "kotlin", Ext: ".kt"},
	{Code: "dart", Ext: ".dart"},
	{Code: "julia", Ext: ".jl"},
	{Code: "nim", Ext: ".nim"},
	{Code: "vlang", DisplayName: "V", Ext: ".v"},
	{Code: "mojo", Ext: ".mojo"},
	{Code: "dlang", DisplayName: "D", Ext: ".d"},
	{Code: "zig", Ext: ".zig"},
}

// byCode is built once at init and read-only afterwards.
var byCode = func() map[string]Language {
	m := make(map[string]Language, len(registry))
	titler := cases.Title(language.English)
	for i, l := range registry {
		if l.DisplayName == "" {
			l.DisplayName = titler.String(l.Code)
			registry[i] = l
		}
		m[l.Code] = l
	}
	return m
}()

// Lookup returns the registry entry for code, and whether it exists.
func Lookup(code string) (Language, bool) {
	l, ok := byCode[code]
	return l, ok
}

// Supported reports whether code is a registered target language.
func Supported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// All returns every registered language in registration order.
// The returned slice is a copy; callers may not mutate the registry.
func All() []Language {
	out := make([]Language, len(registry))
	copy(out, registry)
	return out
}

// Codes returns every registered language code in registration order.
func Codes() []string {
	out := make([]string, len(registry))
	for i, l := range registry {
		out[i] = l.Code
	}
	return out
}
