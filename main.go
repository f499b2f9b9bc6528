package main

import (
	"os"

	"github.com/jandubois/servicecheck/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
