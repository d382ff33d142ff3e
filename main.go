package main

import (
	"log"

	"tuneport/cmd"
)

func main() {
	cmd.Execute()
	// If Execute() had a problem, Cobra would have called os.Exit.
	// Reaching here means the command completed (or the server shut down cleanly).
	log.Println("tuneport command finished.")
}
