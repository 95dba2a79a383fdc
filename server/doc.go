// Package server exposes the transpilation tools over the Model Context
// Protocol.
//
// The server registers four tools with the official MCP Go SDK:
//
//   - transpile_python: deterministic py2many translation
//   - transpile_python_with_llm: same contract, with the --llm flag
//   - list_supported_languages: reads the static language registry
//   - verify_python: SMT verification via py2many --smt and z3
//
// The dispatcher is the recovery boundary: every pipeline failure is
// converted into a structured tool result (IsError plus a message) and
// nothing propagates to the protocol layer. Target languages are validated
// against the registry before any workspace is created, so an unsupported
// language performs no filesystem or process work. For the tools that do
// run the transpiler, the workspace is acquired and released around the
// invocation on every exit path, including a panic inside the pipeline.
//
// Handlers run concurrently as the SDK dispatches calls; they share no
// mutable state beyond the runner's optional concurrency bound, so one
// invocation never blocks another.
package server
