// Package tools provides shared utilities for MCP tool handlers.
package tools

import (
	"fmt"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/giantswarm/mcp-k8s-workloads/internal/server"
)

// Mutating operation names checked by CheckMutatingOperation.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpPatch    = "patch"
	OpDelete   = "delete"
	OpScale    = "scale"
	OpRollback = "rollback"
	OpPause    = "pause"
	OpResume   = "resume"
)

// CheckMutatingOperation verifies if a mutating operation is allowed given the current
// server configuration. Returns an error result if blocked, nil if allowed.
//
// Operations are allowed if:
//   - NonDestructiveMode is disabled, OR
//   - DryRun mode is enabled (operations will be validated but not applied), OR
//   - The operation is explicitly listed in AllowedOperations
func CheckMutatingOperation(sc *server.ServerContext, operation string) *mcp.CallToolResult {
	config := sc.Config()
	if !config.NonDestructiveMode || config.DryRun {
		return nil
	}

	if slices.Contains(config.AllowedOperations, operation) {
		return nil
	}

	return mcp.NewToolResultError(fmt.Sprintf(
		"%s operations are not allowed in non-destructive mode (use --dry-run to validate without applying)",
		cases.Title(language.English).String(operation),
	))
}
