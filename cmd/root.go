package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobradar/internal/jobs"
	"jobradar/internal/pipeline"
	"jobradar/internal/report"
	"jobradar/internal/scoring"
)

const (
	app = "jobradar"
)

type Config struct {
	Profile    *jobs.CandidateProfile `mapstructure:"profile"`
	Sources    *SourcesConfig         `mapstructure:"sources"`
	Enrichment *EnrichmentConfig      `mapstructure:"enrichment"`
	Scoring    *ScoringConfig         `mapstructure:"scoring"`
	AI         *AIConfig              `mapstructure:"ai"`
	Email      *EmailConfig           `mapstructure:"email"`
}

type SourcesConfig struct {
	RemoteOK       *SourceConfig `mapstructure:"remoteok"`
	WeWorkRemotely *SourceConfig `mapstructure:"weworkremotely"`
}

type SourceConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	MaxResults int      `mapstructure:"max_results"`
	Keywords   []string `mapstructure:"keywords"`
	Categories []string `mapstructure:"categories"`
}

type EnrichmentConfig struct {
	pipeline.Config `mapstructure:",squash"`

	// PacingInterval is the minimum spacing between outbound lookups,
	// in seconds.
	PacingInterval float64 `mapstructure:"pacing_interval"`
	APIKeyFile     string  `mapstructure:"api-key-file"`
}

type ScoringConfig struct {
	MinimumScore float64          `mapstructure:"minimum_score"`
	TopN         int              `mapstructure:"top_n"`
	Weights      *scoring.Weights `mapstructure:"weights"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type EmailConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	SMTP    *SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	report.MailConfig `mapstructure:",squash"`

	PasswordFile string `mapstructure:"password-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar is a cli that scrapes job boards, scores postings against your profile and mails a ranked digest",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("enrichment.api-key-file", "TAVILY_API_KEY_FILE"); err != nil {
		log.Fatalf("binding TAVILY_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
