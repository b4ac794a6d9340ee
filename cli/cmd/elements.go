package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/markex/log"
	"github.com/ardnew/markex/markup"
)

// Elements lists the element vocabulary of the default catalog.
type Elements struct {
	Namespace string `help:"Restrict to one namespace" enum:",markup,vector" short:"n" default:""`
	Search    string `help:"Fuzzy-filter element names"                      short:"s"`
}

// Run executes the elements command.
func (e *Elements) Run(ctx context.Context) error {
	catalog := markup.DefaultCatalog()

	for _, ns := range []markup.Namespace{
		markup.NamespaceMarkup,
		markup.NamespaceVector,
	} {
		if e.Namespace != "" && e.Namespace != ns.String() {
			continue
		}

		names := catalog.Elements(ns)
		if e.Search != "" {
			names = rank(e.Search, names)
		}

		for _, name := range names {
			fmt.Printf("%s.%s\n", ns, name)
		}
	}

	if e.Search != "" {
		log.DebugContext(ctx, "fuzzy search",
			slog.String("term", e.Search))
	}

	return nil
}

// rank orders names by fuzzy match quality, dropping non-matches.
func rank(term string, names []string) []string {
	matches := fuzzy.Find(term, names)

	ranked := make([]string, len(matches))
	for i, m := range matches {
		ranked[i] = m.Str
	}

	return ranked
}
