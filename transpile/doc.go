// Package transpile invokes the external py2many process and classifies
// what happened.
//
// The package has three pieces:
//
//   - [Args]: pure assembly of the transpiler argument list from the tool
//     variant, target language, and staged input path. Arguments are always
//     discrete argv entries; nothing is ever interpolated into a shell
//     string, so crafted source text or language codes cannot inject
//     commands.
//
//   - [Runner]: executes the process with a wall-clock timeout. On timeout
//     or cancellation the process receives SIGTERM, and if it has not
//     exited within the grace period it is killed. Both output streams are
//     captured with a byte cap so a misbehaving tool cannot grow memory
//     without bound. A weighted semaphore optionally bounds how many
//     transpiler processes run at once; within that bound each invocation
//     waits on its own process and never blocks another invocation.
//
//   - [Classify]: maps a [RawOutcome] to exactly one [Outcome]. Exit status
//     alone is not trusted: a process that exits 0 without producing output
//     violated the tool contract and is reported as an internal error, not
//     a success.
//
// # Outcome policy
//
// In order:
//
//  1. timed out                     -> KindTimeout (with elapsed time)
//  2. exit 0, non-empty output      -> KindSuccess
//  3. exit 0, empty output          -> KindInternalError
//  4. non-zero exit                 -> KindToolFailure (bounded stderr, code)
package transpile
