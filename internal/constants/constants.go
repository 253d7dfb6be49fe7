// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Timeout constants used across the application
const (
	// DefaultQueryTimeout is the timeout for evaluation requests
	// (retrieval-augmented answers can take a while to generate)
	DefaultQueryTimeout = 120 * time.Second
	// DefaultAuthTimeout is the timeout for login/register requests
	DefaultAuthTimeout = 30 * time.Second
)

// Backend API paths
const (
	LoginPath      = "/login"
	RegisterPath   = "/register"
	DocumentsPath  = "/documents"
	PersistentPath = "/evaluate"
	DynamicPath    = "/evaluate-with-docs"
)

// Application defaults
const (
	AppName        = "ClauseCompass"
	DefaultBaseURL = "http://localhost:8000"
)
