package main

import (
	"os"

	"cubie-assistant/cmd/assistantctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
