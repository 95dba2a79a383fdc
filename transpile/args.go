package transpile

// Variant selects which py2many invocation shape to build.
type Variant int

const (
	// Deterministic is the plain transpile: --<lang> <input>.
	Deterministic Variant = iota

	// LLMAssisted adds the --llm flag: --<lang> --llm <input>.
	// Credential handling for the assisted mode is entirely internal to
	// the transpiler process; this side only adds the flag.
	LLMAssisted

	// SMT emits an SMT-LIB file for verification: --smt <input>.
	// No target language flag is passed.
	SMT
)

// Args builds the py2many argument list for the given variant, target
// language code, and staged input path. It is a pure function: same inputs,
// same argv. langCode is ignored for the SMT variant.
func Args(v Variant, langCode, inputPath string) []string {
	switch v {
	case LLMAssisted:
		return []string{"--" + langCode, "--llm", inputPath}
	case SMT:
		return []string{"--smt", inputPath}
	default:
		return []string{"--" + langCode, inputPath}
	}
}
