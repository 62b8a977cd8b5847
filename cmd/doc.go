// Package cmd provides the command-line interface for mcp-k8s-workloads.
//
// Subcommands:
//   - serve: Starts the MCP server (default when no subcommand is given)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest GitHub release
//
// Command Structure:
//
//	mcp-k8s-workloads [flags]                 # Starts the MCP server (default)
//	mcp-k8s-workloads serve [flags]           # Explicitly starts the MCP server
//	mcp-k8s-workloads version                 # Shows version information
//	mcp-k8s-workloads self-update             # Updates to latest release
//
// Transport Configuration Examples:
//
//	mcp-k8s-workloads serve --transport stdio
//	mcp-k8s-workloads serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	PORT=9000 mcp-k8s-workloads serve --transport streamable-http --http-endpoint /mcp
//
// Mutating tools are refused unless --non-destructive=false or --dry-run is
// given. Instrumentation is configured through the INSTRUMENTATION_ENABLED,
// METRICS_EXPORTER and TRACING_EXPORTER environment variables.
package cmd
