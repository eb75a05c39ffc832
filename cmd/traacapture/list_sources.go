package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listSourcesCmd = &cobra.Command{
	Use:   "list-sources",
	Short: "Enumerate capturable screens",
	Run: func(cmd *cobra.Command, args []string) {
		c := buildCapturer(opts)
		sources, ok := c.GetSourceList()
		if !ok {
			fmt.Fprintln(os.Stderr, "source enumeration failed")
			os.Exit(1)
		}

		for _, s := range sources {
			fmt.Printf("%6d  %-8s %4dx%-4d  %s\n", s.ID, s.Kind.String(), s.Rect.Width(), s.Rect.Height(), s.Title)
		}
	},
}
