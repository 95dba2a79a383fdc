// Package language holds the static registry of py2many target languages.
//
// The registry is fixed at process start and never mutated afterwards, so it
// is safe for concurrent use without locking. Each entry carries the py2many
// command-line code (also the value accepted by the transpile tools), a
// human-readable display name, and the file extension py2many uses for the
// generated output file.
//
// # Usage
//
//	lang, ok := language.Lookup("cpp")
//	if !ok {
//	    // unsupported target
//	}
//	fmt.Println(lang.DisplayName) // "C++"
//
// [All] returns entries in registration order, which is the order the
// list_supported_languages tool reports them in.
package language
