package main

import "github.com/nightmare-tech/chatty-insurance/cmd"

func main() {
	cmd.Execute()
}
