package main

import (
	"os"

	"github.com/Sanzcloud-web/Whisper/cmd/whisper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
