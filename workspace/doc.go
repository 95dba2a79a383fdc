// Package workspace stages per-invocation scratch directories for the
// transpiler process.
//
// Each tool invocation gets its own directory under the OS temp area, named
// with a random UUID so that concurrent invocations can never collide, with
// the request's source text written to input.py inside it. The directory is
// owned by exactly one invocation and must be released when that invocation
// ends, on every exit path.
//
// Contract:
//   - Acquire either returns a fully staged workspace or ErrIOFault; it never
//     leaves a half-created directory behind on failure.
//   - Release is idempotent. Secondary errors (directory already gone, files
//     removed underneath us) are logged and swallowed.
//   - Workspaces are not shared: no locking is needed because no two
//     invocations ever touch the same path.
package workspace
