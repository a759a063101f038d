package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/temirov/gitman/cmd/cli"
)

const (
	exitErrorTemplateConstant = "gitman: %v\n"
	exitCodeFailureConstant   = 1
)

// main runs gitman until it finishes or the user interrupts it.
func main() {
	executionContext, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	executionError := cli.ExecuteContext(executionContext)
	stop()
	if executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(exitCodeFailureConstant)
	}
}
