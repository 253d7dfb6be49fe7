// Package session holds the mutable client session: authentication state,
// operating mode, and the two mode-scoped document collections. It performs
// no I/O beyond validating staged file paths; command handlers own all
// user-facing messaging and mode-legality checks.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// Mode selects which query protocol free-text input is routed to.
type Mode string

const (
	// ModePersistent queries the pre-loaded server knowledge base,
	// optionally scoped to a document context.
	ModePersistent Mode = "persistent"
	// ModeTemporary uploads locally staged documents for a one-time query.
	ModeTemporary Mode = "temporary"
)

// ErrInvalidMode is returned when a mode switch names an unknown mode.
var ErrInvalidMode = errors.New("invalid mode. Use 'persistent' or 'temporary'")

// ParseMode parses a mode token case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ModePersistent):
		return ModePersistent, nil
	case string(ModeTemporary):
		return ModeTemporary, nil
	default:
		return "", ErrInvalidMode
	}
}

// Session is the single source of truth for the interactive session.
// It is created once at startup, mutated only by command handlers on the
// REPL goroutine, and discarded on exit. Token and UserEmail are set and
// cleared together.
type Session struct {
	Token     string
	UserEmail string
	Mode      Mode

	persistentDocs []string // server-side filenames scoping persistent queries
	stagedDocs     []string // absolute local paths pending upload, deduplicated
}

// New creates a session with defaults: logged out, persistent mode, empty
// document collections.
func New() *Session {
	return &Session{Mode: ModePersistent}
}

// Authenticated reports whether a login token is present.
func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// Login records the credential and identity for the session.
func (s *Session) Login(token, email string) {
	s.Token = token
	s.UserEmail = email
}

// Reset returns the session to its logged-out state. Both document
// collections are cleared regardless of the current mode.
func (s *Session) Reset() {
	s.Token = ""
	s.UserEmail = ""
	s.persistentDocs = nil
	s.stagedDocs = nil
}

// SwitchMode parses the given mode token and switches to it. Any mode
// switch clears both document collections: contexts are mode-scoped and
// never carry over. On an unrecognized token the session is left untouched.
func (s *Session) SwitchMode(raw string) (Mode, error) {
	mode, err := ParseMode(raw)
	if err != nil {
		return "", err
	}
	s.Mode = mode
	s.persistentDocs = nil
	s.stagedDocs = nil
	return mode, nil
}

// SetContext replaces the persistent document context with the filenames in
// argStr, split shell-style so quoted names may contain spaces. An empty
// string or the literal wildcard "*" clears the context instead.
// Returns the resulting context.
func (s *Session) SetContext(argStr string) ([]string, error) {
	trimmed := strings.TrimSpace(argStr)
	if trimmed == "" || trimmed == "*" {
		s.persistentDocs = nil
		return nil, nil
	}

	names, err := shlex.Split(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document names: %w", err)
	}
	s.persistentDocs = names
	return s.Context(), nil
}

// ClearContext empties the persistent document context.
func (s *Session) ClearContext() {
	s.persistentDocs = nil
}

// Context returns the persistent document context in the order supplied.
func (s *Session) Context() []string {
	out := make([]string, len(s.persistentDocs))
	copy(out, s.persistentDocs)
	return out
}

// StageStatus describes the outcome of staging a single path.
type StageStatus int

const (
	// Staged means the path was added to the upload set.
	Staged StageStatus = iota
	// Duplicate means the path was already staged and was skipped.
	Duplicate
	// NotFound means the path does not exist or is not a regular file.
	NotFound
)

// StageResult reports the per-path outcome of StageDocuments.
type StageResult struct {
	Path   string // absolute path for Staged/Duplicate, input path for NotFound
	Status StageStatus
}

// StageDocuments stages the file paths in argStr for the next temporary
// query, split shell-style. Each path is resolved to absolute form and must
// name an existing regular file; a path that does not is reported per-path
// and does not abort the rest. Already-staged paths are skipped, so the
// call is idempotent.
func (s *Session) StageDocuments(argStr string) ([]StageResult, error) {
	paths, err := shlex.Split(strings.TrimSpace(argStr))
	if err != nil {
		return nil, fmt.Errorf("failed to parse file paths: %w", err)
	}

	results := make([]StageResult, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			results = append(results, StageResult{Path: path, Status: NotFound})
			continue
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			results = append(results, StageResult{Path: path, Status: NotFound})
			continue
		}

		if s.isStaged(absPath) {
			results = append(results, StageResult{Path: absPath, Status: Duplicate})
			continue
		}

		s.stagedDocs = append(s.stagedDocs, absPath)
		results = append(results, StageResult{Path: absPath, Status: Staged})
	}
	return results, nil
}

func (s *Session) isStaged(absPath string) bool {
	for _, p := range s.stagedDocs {
		if p == absPath {
			return true
		}
	}
	return false
}

// ClearStaged empties the staged upload set.
func (s *Session) ClearStaged() {
	s.stagedDocs = nil
}

// Staged returns the staged upload paths in insertion order.
func (s *Session) Staged() []string {
	out := make([]string, len(s.stagedDocs))
	copy(out, s.stagedDocs)
	return out
}

// ActiveDocs returns the document collection matching the current mode.
func (s *Session) ActiveDocs() []string {
	if s.Mode == ModePersistent {
		return s.Context()
	}
	return s.Staged()
}

// ClearActiveDocs empties the document collection matching the current mode.
func (s *Session) ClearActiveDocs() {
	if s.Mode == ModePersistent {
		s.ClearContext()
	} else {
		s.ClearStaged()
	}
}
