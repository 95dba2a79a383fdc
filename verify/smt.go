package verify

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	preFuncRe   = regexp.MustCompile(`\(define-fun\s+([a-zA-Z_][a-zA-Z0-9_-]*-pre)\b`)
	preParamsRe = regexp.MustCompile(`define-fun\s+[a-zA-Z_][a-zA-Z0-9_-]*-pre\s*\((.*?)\)\s+Bool`)
	intParamRe  = regexp.MustCompile(`(\w+)\s+Int`)
)

// conjoinPreconditions strengthens the disagreement assertion in an SMT-LIB
// document with the first precondition function it defines. The emitted
// encoding asserts (not (= spec impl)); without the precondition conjoined,
// z3 happily reports counterexamples outside the function's domain.
//
// Returns the rewritten document and whether a rewrite took place. When the
// document defines no precondition, or no disagreement assertion is found,
// the input is returned unchanged.
func conjoinPreconditions(smt string) (string, bool) {
	lines := strings.Split(smt, "\n")

	var preName string
	var preParams []string
	for _, line := range lines {
		m := preFuncRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		preName = m[1]
		if pm := preParamsRe.FindStringSubmatch(line); pm != nil {
			for _, p := range intParamRe.FindAllStringSubmatch(pm[1], -1) {
				preParams = append(preParams, p[1])
			}
		}
		break
	}
	if preName == "" {
		return smt, false
	}

	preCall := preName
	if len(preParams) > 0 {
		preCall = fmt.Sprintf("(%s %s)", preName, strings.Join(preParams, " "))
	}

	rewritten := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "(assert") || !strings.Contains(trimmed, "not (= ") {
			continue
		}
		// Unwrap "(assert ...)" and conjoin the precondition call.
		inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "(assert "), ")")
		lines[i] = fmt.Sprintf("(assert (and %s %s))", preCall, inner)
		rewritten = true
		break
	}
	if !rewritten {
		return smt, false
	}
	return strings.Join(lines, "\n"), true
}
