// Package cli wires the veredicto commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/veredicto/veredicto/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veredicto",
	Short: "Veredicto - claim verification pipeline for social and news sources",
	Long: `Veredicto ingests scraped social media and news text, isolates checkable
factual claims, and verifies them against web evidence and its own
knowledge base.

Each claim is examined by independent analysts (source credibility,
historical consistency, logical soundness, evidence support) and the
findings are synthesized into one verdict with a confidence score.
Low-confidence verdicts land in a human review queue, and human
corrections feed back into the knowledge base.

Veredicto records verdicts with their evidence trail; it is an aid for
human fact-checkers, not a replacement.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Veredicto.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("veredicto v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.veredicto/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.veredicto")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match VEREDICTO_*
	viper.SetEnvPrefix("VEREDICTO")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, the config file, and well-known environment
// variables into one Config.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// API keys come from the environment when the config leaves them blank.
	if cfg.LLM.Primary.APIKey == "" {
		cfg.LLM.Primary.APIKey = apiKeyFor(cfg.LLM.Primary.Name)
	}
	if cfg.LLM.Secondary.Name != "" && cfg.LLM.Secondary.APIKey == "" {
		cfg.LLM.Secondary.APIKey = apiKeyFor(cfg.LLM.Secondary.Name)
	}
	if cfg.Embed.APIKey == "" {
		cfg.Embed.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Search.Primary.APIKey == "" {
		cfg.Search.Primary.APIKey = apiKeyFor(cfg.Search.Primary.Name)
	}
	if cfg.Search.Secondary.Name != "" && cfg.Search.Secondary.APIKey == "" {
		cfg.Search.Secondary.APIKey = apiKeyFor(cfg.Search.Secondary.Name)
	}
	return cfg, nil
}

func apiKeyFor(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "brave":
		return os.Getenv("BRAVE_API_KEY")
	default:
		return ""
	}
}

// newLogger builds the process logger. Verbose runs get development
// output with debug level; otherwise structured production logging.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
