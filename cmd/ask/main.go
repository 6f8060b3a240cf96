package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdfchat-backend/internal/shared/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "ask --file document.pdf \"question\"",
	Short: "Ask a question about a local PDF",
	Long: `Extracts the text of a local PDF, composes the same prompt the API sends and
prints the model's answer. Provider settings come from the usual environment
variables (LLM_PROVIDER, GEMINI_API_KEY, OPENAI_API_KEY, ...).`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runAsk,
}

func init() {
	rootCmd.Flags().StringP("file", "f", "", "Path to the PDF to use as context")
	rootCmd.Flags().String("provider", "", "Override LLM_PROVIDER")
	rootCmd.Flags().String("model", "", "Override LLM_MODEL")
	rootCmd.Flags().Bool("dry-run", false, "Print the prompt instead of calling the model")
}

func main() {
	telemetry.Configure("warn")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
