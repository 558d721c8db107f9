package main

import (
	"os"

	"StaticSweep/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
