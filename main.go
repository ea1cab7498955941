// The main package for the webrank executable.
package main

import (
	"github.com/linkgraph/webrank/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
