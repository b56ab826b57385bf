package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Show the resolved completion provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := resolveLLMConfig()

		fmt.Printf("Provider:  %s\n", cfg.Provider)
		switch cfg.Provider {
		case "openai":
			fmt.Printf("Model:     %s\n", cfg.OpenAI.Model)
			if cfg.OpenAI.BaseURL != "" {
				fmt.Printf("Base URL:  %s\n", cfg.OpenAI.BaseURL)
			}
			fmt.Printf("API key:   %s\n", redact(cfg.OpenAI.APIKey))
		case "anthropic":
			fmt.Printf("Model:     %s\n", cfg.Anthropic.Model)
			fmt.Printf("API key:   %s\n", redact(cfg.Anthropic.APIKey))
		case "gemini":
			fmt.Printf("Model:     %s\n", cfg.Gemini.Model)
			fmt.Printf("API key:   %s\n", redact(cfg.Gemini.APIKey))
		case "openrouter":
			fmt.Printf("Model:     %s\n", cfg.OpenRouter.Model)
			fmt.Printf("API key:   %s\n", redact(cfg.OpenRouter.APIKey))
		}

		if err := cfg.Validate(); err != nil {
			fmt.Printf("Status:    not configured (%v)\n", err)
			return nil
		}
		fmt.Println("Status:    ok")
		return nil
	},
}

func redact(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
