package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/nightmare-tech/chatty-insurance/internal/api"
	"github.com/nightmare-tech/chatty-insurance/internal/display"
)

// handleLogin prompts for credentials and exchanges them for a token.
func handleLogin(s *InteractiveSession, args string) {
	email, err := display.PromptLine("Email: ")
	if err != nil {
		display.ShowError(err.Error())
		return
	}
	password, err := display.PromptPassword("Password: ")
	if err != nil {
		display.ShowError(err.Error())
		return
	}

	token, err := s.app.backend.Login(context.Background(), email, password)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			display.ShowError(fmt.Sprintf("Login failed: %s", apiErr.Detail))
			return
		}
		s.showTransportError(err)
		return
	}

	s.sess.Login(token, email)
	display.ShowSuccess("Login successful.")
}

// handleRegister prompts for account details and creates a new account.
// Registration does not log the user in; the backend expects a login after.
func handleRegister(s *InteractiveSession, args string) {
	userID, err := display.PromptLine("Enter new User ID: ")
	if err != nil {
		display.ShowError(err.Error())
		return
	}
	email, err := display.PromptLine("Enter your Email: ")
	if err != nil {
		display.ShowError(err.Error())
		return
	}
	password, err := display.PromptPassword("Enter Password: ")
	if err != nil {
		display.ShowError(err.Error())
		return
	}

	if err := s.app.backend.Register(context.Background(), userID, email, password); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			display.ShowError(fmt.Sprintf("Registration failed: %s", apiErr.Detail))
			return
		}
		s.showTransportError(err)
		return
	}

	display.ShowSuccess("Registration successful. Please login.")
}

// handleLogout fully resets the session: token, identity, and both document
// collections, independent of the current mode.
func handleLogout(s *InteractiveSession, args string) {
	s.sess.Reset()
	display.ShowWarning("You have been logged out.")
}
