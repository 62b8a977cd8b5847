// Package middleware provides HTTP middleware for the MCP transports:
// request metrics, security headers and request size limits.
package middleware
