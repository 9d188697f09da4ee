package cmd

import (
	"fmt"
	"strings"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/pkg/ai/router"
	"cubie-assistant/pkg/llm/factory"
	"cubie-assistant/pkg/navigation"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	classifyWithModel bool
	classifyHint      string
)

var classifyCmd = &cobra.Command{
	Use:   "classify <question>",
	Short: "Show which mode and rule a question routes to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := navigation.LoadTable(cfg.Assistant.NavigationTable)
		if err != nil {
			return err
		}
		resolver := navigation.NewResolver(table, cfg.Assistant.NavigationMinimum)

		var opts []router.Option
		if classifyWithModel {
			provider, err := factory.NewLLMProvider(cmd.Context(), factory.Settings{
				Provider:       cfg.Ai.LLMProvider,
				Model:          cfg.Ai.LLMModel,
				FallbackModels: cfg.Ai.LLMFallbackModels,
				BaseURL:        cfg.Ai.OllamaBaseURL,
				APIKey:         cfg.Ai.GeminiAPIKey,
				Timeout:        cfg.Ai.CallTimeout,
			})
			if err != nil {
				return err
			}
			opts = append(opts, router.WithModel(router.NewLLMModeClassifier(provider)))
		}

		hint, ok := router.ParseMode(classifyHint)
		if !ok {
			return fmt.Errorf("unknown mode hint %q", classifyHint)
		}
		// Prefixes like "/help" behave exactly as they do in a live turn.
		parsed := router.Parse(strings.Join(args, " "))
		if parsed.Hint != router.ModeNone {
			hint = parsed.Hint
		}
		text := parsed.CleanPrompt

		c := router.NewClassifier(resolver, logger.NewNopLogger(), opts...).
			Classify(cmd.Context(), router.Input{Text: text, Hint: hint})
		color.Cyan("mode:       %s", c.Mode)
		fmt.Printf("rule:       %s\n", c.Rule)
		fmt.Printf("confidence: %.2f\n", c.Confidence)
		if c.DisputeID != 0 {
			fmt.Printf("dispute:    %d\n", c.DisputeID)
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyWithModel, "model", false, "consult the completion model when no rule matches")
	classifyCmd.Flags().StringVar(&classifyHint, "hint", "", "mode hint: help, analytics, navigation, email or dispute_action")
}
