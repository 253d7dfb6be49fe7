package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nightmare-tech/chatty-insurance/internal/api"
	"github.com/nightmare-tech/chatty-insurance/internal/display"
	"github.com/nightmare-tech/chatty-insurance/internal/logging"
	"github.com/nightmare-tech/chatty-insurance/internal/session"
)

// commandHandler processes one command with its argument string. Handlers
// take the session through the InteractiveSession; mode legality is checked
// here, not in the session package.
type commandHandler func(s *InteractiveSession, args string)

// commands maps command keywords (matched case-insensitively) to handlers.
// Unmatched input falls through to routeQuery.
var commands = map[string]commandHandler{
	"help":       handleHelp,
	"mode":       handleModeSwitch,
	"login":      handleLogin,
	"register":   handleRegister,
	"logout":     handleLogout,
	"list_docs":  handleListDocs,
	"set_docs":   handleSetDocs,
	"add_doc":    handleAddDoc,
	"show_docs":  handleShowDocs,
	"clear_docs": handleClearDocs,
	"exit":       handleExit,
	"quit":       handleExit,
}

const (
	persistentOnlyMsg = "This command is only available in 'persistent' mode."
	temporaryOnlyMsg  = "This command is only available in 'temporary' mode."
	loginRequiredMsg  = "You must be logged in first."
)

// handleModeSwitch switches the operating mode. Any successful switch
// clears both document collections; an invalid token changes nothing.
func handleModeSwitch(s *InteractiveSession, args string) {
	mode, err := s.sess.SwitchMode(args)
	if err != nil {
		display.ShowError(err.Error())
		return
	}
	display.ShowSuccess(fmt.Sprintf("Mode switched to: %s", mode))
}

// handleListDocs lists the documents available in the persistent KB.
func handleListDocs(s *InteractiveSession, args string) {
	if s.sess.Mode != session.ModePersistent {
		display.ShowError(persistentOnlyMsg)
		return
	}
	if !s.sess.Authenticated() {
		display.ShowError(loginRequiredMsg)
		return
	}

	docs, err := s.app.backend.ListDocuments(context.Background(), s.sess.Token)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			display.ShowError(fmt.Sprintf("Error fetching documents: %s", apiErr.Detail))
			return
		}
		s.showTransportError(err)
		return
	}

	if len(docs) == 0 {
		display.ShowWarning("No documents found in persistent KB.")
		return
	}

	// The server listing is sorted for display; contexts keep user order
	sorted := make([]string, len(docs))
	copy(sorted, docs)
	sort.Strings(sorted)
	display.ShowTable("Available Documents in Persistent KB", sorted)
}

// handleSetDocs sets the server-side document context for persistent
// queries. An empty argument or "*" clears it.
func handleSetDocs(s *InteractiveSession, args string) {
	if s.sess.Mode != session.ModePersistent {
		display.ShowError(persistentOnlyMsg)
		return
	}

	names, err := s.sess.SetContext(args)
	if err != nil {
		display.ShowError(err.Error())
		return
	}
	if len(names) == 0 {
		display.ShowWarning("Persistent document context cleared.")
		return
	}
	display.ShowWarning(fmt.Sprintf("Persistent document context set to: [%s]", strings.Join(names, ", ")))
}

// handleAddDoc stages local files for the next temporary query. Each path
// is validated independently; a bad path never aborts the rest.
func handleAddDoc(s *InteractiveSession, args string) {
	if s.sess.Mode != session.ModeTemporary {
		display.ShowError(temporaryOnlyMsg)
		return
	}
	if strings.TrimSpace(args) == "" {
		display.ShowError("Usage: add_doc /path/to/file.pdf ...")
		return
	}

	results, err := s.sess.StageDocuments(args)
	if err != nil {
		display.ShowError(err.Error())
		return
	}

	for _, r := range results {
		switch r.Status {
		case session.Staged:
			display.ShowSuccess(fmt.Sprintf("Staged: %s", r.Path))
		case session.Duplicate:
			display.ShowWarning(fmt.Sprintf("Skipped (already staged): %s", r.Path))
		case session.NotFound:
			display.ShowError(fmt.Sprintf("Error: File not found: %s", r.Path))
		}
	}
}

// handleShowDocs shows whichever document collection matches the current mode.
func handleShowDocs(s *InteractiveSession, args string) {
	docs := s.sess.ActiveDocs()
	if len(docs) == 0 {
		display.ShowWarning("No documents are currently set for this mode.")
		return
	}

	title := "Document Context Set for Persistent Query"
	if s.sess.Mode == session.ModeTemporary {
		title = "Local Documents Staged for Temporary Query"
	}
	display.ShowTable(title, docs)
}

// handleClearDocs clears whichever document collection matches the current mode.
func handleClearDocs(s *InteractiveSession, args string) {
	s.sess.ClearActiveDocs()
	display.ShowWarning("Current document context has been cleared.")
}

// routeQuery routes free-text input to the query protocol for the current
// mode. This is evaluated fresh on every query since mode can change
// between lines. Nothing touches the network without a login token, and a
// temporary query with nothing staged is rejected up front.
func (s *InteractiveSession) routeQuery(query string) {
	if !s.sess.Authenticated() {
		display.ShowError("You must be logged in to run a query.")
		return
	}

	logging.Debug("Routing query", logging.Fields{
		"mode": string(s.sess.Mode),
		"docs": len(s.sess.ActiveDocs()),
	})

	if s.sess.Mode == session.ModePersistent {
		s.runPersistentQuery(query)
	} else {
		s.runTemporaryQuery(query)
	}
}

// runPersistentQuery sends the query against the server KB, scoped to the
// current document context.
func (s *InteractiveSession) runPersistentQuery(query string) {
	sp := display.NewSpinner("Querying persistent KB...")
	sp.Start()
	raw, err := s.app.backend.Evaluate(context.Background(), s.sess.Token, query, s.sess.Context())
	sp.Stop()

	s.showQueryOutcome(raw, err)
}

// runTemporaryQuery uploads the staged documents with the query.
func (s *InteractiveSession) runTemporaryQuery(query string) {
	if len(s.sess.Staged()) == 0 {
		display.ShowError("No documents staged. Use 'add_doc' first.")
		return
	}

	sp := display.NewSpinner("Uploading documents and processing...")
	sp.Start()
	raw, err := s.app.backend.EvaluateWithDocs(context.Background(), s.sess.Token, query, s.sess.Staged())
	sp.Stop()

	s.showQueryOutcome(raw, err)
}

// showQueryOutcome renders a response or maps the error to its category:
// server application error, connection error, or local file error.
func (s *InteractiveSession) showQueryOutcome(raw json.RawMessage, err error) {
	if err == nil {
		display.ShowResponse(raw)
		return
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		display.ShowError(fmt.Sprintf("Error: %d - %s", apiErr.StatusCode, apiErr.Detail))
		return
	}
	s.showTransportError(err)
}

// showTransportError reports connection errors distinctly from everything
// else (local file errors included).
func (s *InteractiveSession) showTransportError(err error) {
	var connErr *api.ConnectionError
	if errors.As(err, &connErr) {
		display.ShowError(fmt.Sprintf("Connection Error to API at %s.", connErr.BaseURL))
		return
	}
	display.ShowError(err.Error())
}
