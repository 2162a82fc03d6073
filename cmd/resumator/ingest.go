package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/figuedmundo/resumator-sub003/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <url>",
	Short: "Fetch a job posting and print it as plain text",
	Long:  `Fetch a job posting from a URL, strip the page chrome, and print the job description text suitable for a customization request.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	text, err := ingest.JobDescription(cmd.Context(), args[0], nil)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
