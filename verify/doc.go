// Package verify implements SMT-based checking of Python code via py2many
// and the z3 solver.
//
// The pipeline mirrors the transpile pipeline but runs two external
// processes against the same workspace:
//
//  1. py2many --smt emits an SMT-LIB encoding next to the staged input,
//     containing the spec function, the implementation, and an assertion
//     that they disagree on some input.
//  2. The assertion is strengthened with the function's precondition
//     (the define-fun carrying a -pre suffix), so counterexamples outside
//     the stated domain are not reported.
//  3. z3 decides the rewritten query: sat means a counterexample exists
//     (the implementation diverges from the spec), unsat means none does.
//
// Both process runs share the invoker's timeout and termination discipline,
// and all intermediate files live inside the invocation's workspace, so the
// usual release path cleans them up.
package verify
