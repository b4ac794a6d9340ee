package cmd

import (
	"context"

	"github.com/ardnew/markex/cli/cmd/repl"
	"github.com/ardnew/markex/log"
)

// Repl starts the interactive transform preview.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	return repl.Run(ctx, log.Default())
}
