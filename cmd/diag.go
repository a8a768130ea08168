package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/cretz/sandboxd/diagnostics"
)

func diagCmd() *cobra.Command {
	var writeDisk bool
	cmd := &cobra.Command{
		Use:   "diag",
		Short: "Run host diagnostics and dump the result as JSON",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			d, err := diagnostics.Run(writeDisk)
			if err != nil {
				log.Fatal(err)
			}
			b, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(string(b))
		},
	}
	cmd.Flags().BoolVar(&writeDisk, "write-disk", false, "Test disk write throughput")
	return cmd
}
