package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/markex/log"
	"github.com/ardnew/markex/markup"
)

// Rewrite parses source modules and prints each item with embedded
// markup lowered to document constructor calls.
type Rewrite struct {
	Source []string `arg:"" help:"Source file(s) or '-' for stdin" name:"source" optional:""`
	Output string   `       help:"Write output to file instead of stdout"        short:"o"`
}

// Run executes the rewrite command.
func (r *Rewrite) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	src, err := readSources(r.Source)
	if err != nil {
		return markup.WrapError(err).
			With(slog.String("command", "rewrite"))
	}

	mod, err := transformModule(src)
	if err != nil {
		return markup.WrapError(err).
			With(slog.String("command", "rewrite"))
	}

	out := os.Stdout
	if r.Output != "" {
		out, err = os.Create(r.Output)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	for _, item := range mod.Items {
		renderItem(out, item)
	}

	log.DebugContext(ctx, "rewrite complete",
		slog.Int("item_count", len(mod.Items)))

	return nil
}
