// Package logging provides the leveled, structured logger used by the server.
//
// Output goes to stderr because stdout carries the MCP stdio protocol.
// Fields are printed as sorted key=value pairs after the message:
//
//	log := logging.NewStderr(logging.InfoLevel).WithFields(logging.Fields{"component": "mcp"})
//	log.Info("tool called", logging.Fields{"tool": "identify_chord"})
//	// 2026/01/02 15:04:05 [INFO] tool called component=mcp tool=identify_chord
package logging
