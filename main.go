package main

import (
	"os"

	"savesync/cmd"
)

func main() {
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "sync")
	}
	cmd.Execute()
}
