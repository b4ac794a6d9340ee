// Package cmd implements the markex subcommands.
package cmd
