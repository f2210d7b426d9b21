package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var extractContext string

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract a structured incident from one report",
	Long:  "Reads the report text from the arguments, or from stdin when no arguments are given, and prints the validated incident as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if text == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return eris.New("empty report text")
		}

		ext, err := initExtractor()
		if err != nil {
			return err
		}

		incident, err := ext.Extract(cmd.Context(), text, extractContext)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(incident)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractContext, "context", "", "additional context appended to the prompt")
	rootCmd.AddCommand(extractCmd)
}
