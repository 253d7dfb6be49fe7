// Package cmd implements the CLI commands for the ClauseCompass client.
//
// # Architecture
//
// This package is organized into the following logical groups:
//
// ## Core CLI
//
//   - root.go: Main entry point, App struct, cobra command setup, and flags
//   - interactive.go: REPL session management, prompt, completion, dispatch
//
// ## Command Handling
//
//   - commands.go: Command registry, document commands, and query routing
//   - login.go: Authentication commands (login, register, logout)
//   - help.go: The interactive help screen
//
// # Key Components
//
// ## App
//
// The App struct holds configuration and the backend client. It's created
// in Execute() and shared by all command handlers.
//
// ## InteractiveSession
//
// Manages the interactive loop: the live prompt prefix, command completion,
// and dispatch of each input line. A line whose first token matches a
// registered command runs that handler; anything else is routed as a
// free-text query according to the current mode.
//
// ## Query routing
//
// routeQuery is the only mode-driven branch point: persistent mode sends
// the query (with the document context) to /evaluate, temporary mode
// uploads the staged files to /evaluate-with-docs. Both require a login
// token and neither touches the network when validation fails.
//
// # Usage
//
//	// Main entry point
//	func main() {
//	    cmd.Execute()
//	}
package cmd
