// Package mcp scaffolds the package.json that pins MCP server packages.
//
// An existing package.json may contain comments and trailing commas. Unknown
// fields and unrelated dependencies are kept; configured servers always win.
package mcp
