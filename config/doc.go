// Package config holds process-wide configuration for the MCP server.
//
// Configuration is resolved once at startup, in increasing precedence:
// built-in defaults, an optional YAML file, then PY2MANY_MCP_* environment
// variables. After Load returns, the configuration is read-only for the
// life of the process; the invocation pipeline never re-reads it.
package config
