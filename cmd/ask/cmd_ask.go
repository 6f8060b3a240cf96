package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pdfchat-backend/internal/bootstrap"
	"pdfchat-backend/internal/conversations"
	"pdfchat-backend/internal/extract"
	"pdfchat-backend/internal/shared/config"
)

func runAsk(cmd *cobra.Command, args []string) error {
	filePath, _ := cmd.Flags().GetString("file")
	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	question := ""
	if len(args) == 1 {
		question = args[0]
	}

	documentText := ""
	if strings.TrimSpace(filePath) != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		documentText, err = extract.PDF{}.Extract(cmd.Context(), data)
		if err != nil {
			return err
		}
	}

	prompt := conversations.BuildPrompt(question, documentText)
	if dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), prompt)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if provider != "" {
		cfg.LLM.Provider = strings.ToLower(provider)
		if model == "" && strings.TrimSpace(os.Getenv("LLM_MODEL")) == "" {
			cfg.LLM.Model = config.DefaultModel(cfg.LLM.Provider)
		}
	}
	if model != "" {
		cfg.LLM.Model = model
	}

	client, err := bootstrap.BuildLLM(cfg.LLM)
	if err != nil {
		return err
	}
	answer, err := client.Generate(cmd.Context(), prompt)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
