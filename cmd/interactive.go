package cmd

import (
	"fmt"
	"strings"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"

	"github.com/nightmare-tech/chatty-insurance/internal/constants"
	"github.com/nightmare-tech/chatty-insurance/internal/logging"
	"github.com/nightmare-tech/chatty-insurance/internal/session"
)

// InteractiveSession holds the state for one interactive run: the shared
// app, the mutable session, and the exit flag checked by the prompt loop.
type InteractiveSession struct {
	app      *App
	sess     *session.Session
	exitFlag bool
}

// runInteractive starts the REPL. It reads one line at a time, dispatches
// registered commands, and routes everything else as a free-text query.
// Ctrl+C and Ctrl+D leave through the same graceful path as exit/quit.
func (app *App) runInteractive() {
	s := &InteractiveSession{
		app:  app,
		sess: session.New(),
	}

	fmt.Printf("Welcome to the %s Decision Engine CLI! 🧭 Type 'help' for commands.\n", constants.AppName)

	p := prompt.New(
		s.executor,
		prompt.WithCompleter(s.completer),
		prompt.WithPrefixCallback(s.promptPrefix),
		prompt.WithTitle(constants.AppName),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithMaxSuggestion(15),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return s.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				fmt.Println("\nExiting...")
				s.exitFlag = true
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Println("Exiting...")
					s.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()
}

// promptPrefix builds the live prompt showing mode, identity, and how many
// documents are in play for the current mode.
func (s *InteractiveSession) promptPrefix() string {
	user := "logged out"
	if s.sess.Authenticated() {
		user = s.sess.UserEmail
	}

	docsPart := ""
	if n := len(s.sess.ActiveDocs()); n > 0 {
		noun := "docs"
		if s.sess.Mode == session.ModeTemporary {
			noun = "staged"
		}
		docsPart = fmt.Sprintf(" [%d %s]", n, noun)
	}

	return fmt.Sprintf("%s (%s) (%s)%s > ", constants.AppName, s.sess.Mode, user, docsPart)
}

// completer suggests command names, and mode names after "mode ".
func (s *InteractiveSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	if strings.HasPrefix(strings.ToLower(text), "mode ") {
		suggestions := []prompt.Suggest{
			{Text: "persistent", Description: "Query the pre-loaded server knowledge base"},
			{Text: "temporary", Description: "Upload your own documents for a one-time query"},
		}
		return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	// Only suggest commands while typing the first word
	if strings.Contains(text, " ") {
		return []prompt.Suggest{}, startIndex, endIndex
	}

	suggestions := []prompt.Suggest{
		{Text: "mode", Description: "Switch mode (clears document context)"},
		{Text: "login", Description: "Log in to the decision engine"},
		{Text: "register", Description: "Create a new account"},
		{Text: "logout", Description: "Log out and reset the session"},
		{Text: "list_docs", Description: "List documents in the persistent KB"},
		{Text: "set_docs", Description: "Set server-side document context"},
		{Text: "add_doc", Description: "Stage a local document for upload"},
		{Text: "show_docs", Description: "Show documents for the current mode"},
		{Text: "clear_docs", Description: "Clear documents for the current mode"},
		{Text: "help", Description: "Show the help screen"},
		{Text: "exit", Description: "Exit the application"},
		{Text: "quit", Description: "Exit (alias)"},
	}
	return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
}

// executor handles one input line from the REPL.
func (s *InteractiveSession) executor(input string) {
	if s.exitFlag {
		return
	}
	s.dispatch(input)
}

// dispatch tokenizes the line into command + argument string and invokes
// the matching handler. A line whose first token is not a registered
// command is routed, unmodified, as free-text query input: the full line is
// the query, never the remainder after the first word.
func (s *InteractiveSession) dispatch(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])
	args := ""
	if len(parts) > 1 {
		args = parts[1]
	}

	if handler, ok := commands[command]; ok {
		logging.Debug("Dispatching command", logging.Fields{
			"command": command,
			"mode":    string(s.sess.Mode),
		})
		handler(s, args)
		return
	}

	s.routeQuery(input)
}

// handleExit terminates the loop with the shared goodbye path.
func handleExit(s *InteractiveSession, args string) {
	fmt.Println("Exiting...")
	s.exitFlag = true
}
