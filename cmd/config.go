package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nguyenvanduocit/grctrans/pkg/pipeline"
	"github.com/nguyenvanduocit/grctrans/pkg/translator"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

// initConfig reads .env, the config file and the environment, in that order
// of precedence below flags.
func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".grctrans")
	}

	viper.SetEnvPrefix("GRCTRANS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("anthropic.key", "GRCTRANS_ANTHROPIC_KEY", "ANTHROPIC_API_KEY", "ANTHROPIC_KEY")
	viper.BindEnv("gemini.key", "GRCTRANS_GEMINI_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	viper.BindEnv("openai.key", "GRCTRANS_OPENAI_KEY", "OPENAI_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log.level"))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch viper.GetString("log.format") {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q", viper.GetString("log.format"))
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// credentialFor picks the key for model: --api-key wins, then the key
// configured for the model's provider.
func credentialFor(model string) (string, error) {
	if key := viper.GetString("api_key"); key != "" {
		return key, nil
	}
	p, err := translator.ProviderFor(model)
	if err != nil {
		return "", err
	}
	key := viper.GetString(string(p) + ".key")
	if key == "" {
		return "", fmt.Errorf("%w: set --api-key or the %s key", translator.ErrMissingCredential, p)
	}
	return key, nil
}

// newCompleter wires every provider behind one registry. The returned func
// releases the cache.
func newCompleter() (translator.Completer, func(), error) {
	registry := translator.NewRegistry()
	registry.Register(translator.ProviderAnthropic, translator.NewAnthropic(translator.AnthropicConfig{}))
	registry.Register(translator.ProviderGemini, translator.NewGemini(nil))
	registry.Register(translator.ProviderOpenAI, translator.NewOpenAI("", nil))

	if !viper.GetBool("cache") {
		return registry, func() {}, nil
	}

	cached, err := translator.NewCached(registry, translator.DefaultCacheTTL, translator.DefaultCacheMaxCost)
	if err != nil {
		return nil, nil, err
	}
	return cached, cached.Close, nil
}

func newPipeline(c translator.Completer) *pipeline.Pipeline {
	logger := slog.Default()

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithChunkSize(viper.GetInt("chunk_size")),
		pipeline.WithWorkers(viper.GetInt("chunk_workers")),
		pipeline.WithMaxTokens(viper.GetInt("max_tokens")),
		pipeline.WithRetrier(translator.NewRetrier(
			viper.GetInt("max_retries"),
			viper.GetDuration("initial_delay"),
			logger,
		)),
	}
	if n := viper.GetInt("rate_per_minute"); n > 0 {
		opts = append(opts, pipeline.WithLimiter(rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)))
	}

	return pipeline.New(c, opts...)
}
