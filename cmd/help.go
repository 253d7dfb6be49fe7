package cmd

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/nightmare-tech/chatty-insurance/internal/constants"
)

// handleHelp displays the help screen covering both modes.
func handleHelp(s *InteractiveSession, args string) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	bold.Printf("%s Decision Engine CLI 🧭", constants.AppName)
	fmt.Println(" — a tool for querying the RAG system.")
	fmt.Println()

	bold.Println("Core Commands:")
	printCommand(cyan, "mode <persistent|temporary>", "Switch between modes. This clears any set document context.")
	printCommand(cyan, "login / register / logout", "Standard user session management.")
	printCommand(cyan, "help", "Show this help message.")
	printCommand(cyan, "exit / quit", "Exit the application.")
	fmt.Println()

	bold.Println("Persistent Mode Commands: (Query the pre-loaded server knowledge base)")
	printCommand(cyan, "list_docs", "List available documents in the persistent KB.")
	printCommand(cyan, "set_docs [file1.pdf]...", "Set server-side document context for queries.")
	printCommand(cyan, "clear_docs", "Clear document context for this mode.")
	fmt.Println()

	bold.Println("Temporary Mode Commands: (Upload your own documents for a one-time query)")
	printCommand(cyan, "add_doc /path/to/file.pdf", "Stage a local document for the next query.")
	printCommand(cyan, "show_docs", "Show currently staged local documents.")
	printCommand(cyan, "clear_docs", "Clear staged local documents.")
	fmt.Println()

	bold.Println("Querying:")
	fmt.Println("Simply type your query and press Enter. The right action will be taken based on the current mode.")
}

func printCommand(c *color.Color, name, desc string) {
	c.Printf("  %-28s", name)
	fmt.Printf(" %s\n", desc)
}
