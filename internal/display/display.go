// Package display handles all terminal output: colored status messages,
// document tables, the busy spinner, structured response rendering, and
// prompted credential input.
package display

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	titleColor   = color.New(color.FgCyan, color.Bold)
)

// ShowSuccess prints a success message
func ShowSuccess(msg string) {
	successColor.Printf("✔ %s\n", msg)
}

// ShowError prints an error message
func ShowError(msg string) {
	errorColor.Printf("❌ %s\n", msg)
}

// ShowWarning prints a warning message
func ShowWarning(msg string) {
	warnColor.Println(msg)
}

// ShowInfo prints a neutral informational message
func ShowInfo(msg string) {
	fmt.Println(msg)
}

// ShowTable prints a titled single-column listing
func ShowTable(title string, rows []string) {
	titleColor.Println(title)
	fmt.Println(strings.Repeat("─", len([]rune(title))))
	for _, row := range rows {
		fmt.Printf("  %s\n", row)
	}
}

// stdinReader is shared so buffered input is not lost between prompts
var stdinReader = bufio.NewReader(os.Stdin)

// PromptLine reads a single line of input after printing the label
func PromptLine(label string) (string, error) {
	color.New(color.Bold).Print(label)
	line, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// PromptPassword reads a line of input with echo disabled
func PromptPassword(label string) (string, error) {
	color.New(color.Bold).Print(label)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(password)), nil
}
