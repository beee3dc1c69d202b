package main

import (
	"os"

	"github.com/abdallah-zarea/savior-bot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
