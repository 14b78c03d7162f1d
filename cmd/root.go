/*
Copyright © 2025 insureval authors
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "insureval",
	Short: "Insurance chatbot with automatic production evaluation",
	Long: `insureval serves an insurance Q&A chatbot and continuously evaluates
its production answers: each live question is semantically matched
against a curated evaluation dataset, scored by an LLM judge when a
confident match exists, and logged as a novel question otherwise.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
