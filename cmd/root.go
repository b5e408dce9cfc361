package cmd

import (
	"github.com/nguyenvanduocit/grctrans/pkg/chunker"
	"github.com/nguyenvanduocit/grctrans/pkg/translator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var Root = &cobra.Command{
	Use:   "grctrans",
	Short: "Translate Ancient Greek texts into English with large language models",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initConfig()
		return setupLogger()
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	flags := Root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.grctrans.yaml)")
	flags.StringP("model", "m", translator.DefaultAnthropicModel, "model ID; its prefix selects the provider")
	flags.String("api-key", "", "API key for the model's provider (default from ANTHROPIC_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY)")
	flags.Int("chunk-size", chunker.DefaultMaxChunkSize, "maximum characters per request")
	flags.Int("max-retries", translator.DefaultMaxRetries, "attempts per chunk before giving up")
	flags.Duration("initial-delay", translator.DefaultInitialDelay, "backoff before the second attempt, doubled after each failure")
	flags.Int("rate-per-minute", 50, "maximum model calls per minute, 0 for no limit")
	flags.Int("chunk-workers", 1, "chunks of one text translated at once")
	flags.Int("max-tokens", translator.DefaultMaxTokens, "maximum reply tokens per chunk")
	flags.Bool("cache", true, "reuse translations of identical chunks within the process")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")

	viper.BindPFlag("model", flags.Lookup("model"))
	viper.BindPFlag("api_key", flags.Lookup("api-key"))
	viper.BindPFlag("chunk_size", flags.Lookup("chunk-size"))
	viper.BindPFlag("max_retries", flags.Lookup("max-retries"))
	viper.BindPFlag("initial_delay", flags.Lookup("initial-delay"))
	viper.BindPFlag("rate_per_minute", flags.Lookup("rate-per-minute"))
	viper.BindPFlag("chunk_workers", flags.Lookup("chunk-workers"))
	viper.BindPFlag("max_tokens", flags.Lookup("max-tokens"))
	viper.BindPFlag("cache", flags.Lookup("cache"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))

	Root.AddCommand(Translate)
	Root.AddCommand(Batch)
	Root.AddCommand(Serve)
	Root.AddCommand(Models)
}
