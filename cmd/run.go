package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobradar/internal/enrich"
	"jobradar/internal/jobs"
	"jobradar/internal/logger"
	"jobradar/internal/parser"
	"jobradar/internal/pipeline"
	"jobradar/internal/report"
	"jobradar/internal/scoring"
	"jobradar/internal/scrape"
	"jobradar/internal/secrets"
	"jobradar/internal/tavily"
)

const (
	PromptYes        = "Yes"
	PromptNo         = "No"
	PromptDumpToFile = "Dump shortlist to file"
)

var prompt = promptui.Select{
	Label: "Send the digest email?",
	Items: []string{PromptYes, PromptNo, PromptDumpToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scrape-score-report cycle",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "read postings from a JSON file instead of scraping the boards")
	runCmd.Flags().StringP("csv", "o", "", "write the ranked shortlist to a CSV file")
	runCmd.Flags().BoolP("auto-approve", "y", false, "send the digest email without asking for confirmation")
	runCmd.Flags().Bool("dry-run", false, "rank and print the digest but never send email")
	runCmd.Flags().Bool("skip-email", false, "skip email delivery for this run")
	runCmd.Flags().Int("max-jobs", 0, "cap the number of postings ranked, 0 means no cap")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobradar", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	if err := config.Profile.Validate(); err != nil {
		logger.Fatal("validating candidate profile", zap.Error(err))
	}

	postings, err := gatherPostings(ctx, cmd, config, logger)
	if err != nil {
		logger.Fatal("gathering postings", zap.Error(err))
	}

	if removed := postings.Dedup(); len(removed) > 0 {
		logger.Info("dropped duplicate postings", zap.Int("count", len(removed)))
	}

	if postings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return
	}

	if maxJobs, _ := cmd.Flags().GetInt("max-jobs"); maxJobs > 0 && postings.Len() > maxJobs {
		postings.Items = postings.Items[:maxJobs]
		logger.Info("capped postings", zap.Int("max_jobs", maxJobs))
	}

	logger.Info("postings collected",
		zap.Int("count", postings.Len()),
		zap.Int("employers", len(postings.Companies())),
	)

	jobParser := newParser(ctx, config.AI, logger)
	jobParser.ParseAll(ctx, postings)

	enricher := buildEnricher(ctx, config.Enrichment, logger)

	weights := scoring.DefaultWeights()
	minScore, topN := 0.0, 0
	if config.Scoring != nil {
		if config.Scoring.Weights != nil {
			weights = *config.Scoring.Weights
		}
		minScore = config.Scoring.MinimumScore
		topN = config.Scoring.TopN
	}

	engine := scoring.NewEngine(config.Profile, weights)

	var pipelineEnricher pipeline.Enricher
	pipelineCfg := pipeline.Config{}
	if config.Enrichment != nil {
		pipelineCfg = config.Enrichment.Config
	}
	if enricher != nil {
		pipelineEnricher = enricher
	}

	ranked, err := pipeline.New(engine, pipelineEnricher, pipelineCfg, logger).Rank(ctx, postings)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	if enricher != nil {
		stats := enricher.Stats()
		logger.Info("enrichment lookups",
			zap.Int("calls", stats.Calls),
			zap.Int("cache_hits", stats.Hits),
			zap.Int("failures", stats.Failures),
		)
	}

	shortlist := pipeline.Shortlist(ranked, minScore, topN)
	logger.Info("shortlist ready",
		zap.Int("ranked", len(ranked)),
		zap.Int("shortlisted", len(shortlist)),
	)

	digest := report.Digest(config.Profile, shortlist, time.Now())
	fmt.Print(digest)

	if csvPath := cmd.Flag("csv").Value.String(); csvPath != "" {
		if err := exportCSV(csvPath, shortlist); err != nil {
			logger.Fatal("exporting csv", zap.Error(err))
		}
		logger.Info("shortlist exported", zap.String("filename", csvPath))
	}

	if err := deliver(cmd, config, shortlist, digest, logger); err != nil {
		logger.Fatal("delivering digest", zap.Error(err))
	}
}

// gatherPostings reads a postings JSON file when --input is set, otherwise it
// scrapes the configured boards.
func gatherPostings(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger) (*jobs.Postings, error) {
	if input := cmd.Flag("input").Value.String(); input != "" {
		logger.Info("reading postings from file", zap.String("filename", input))
		return loadPostingsFile(input)
	}

	sources := buildSources(config.Sources, logger)
	return scrape.NewRunner(sources, logger).Run(ctx)
}

func loadPostingsFile(path string) (*jobs.Postings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read postings file: %w", err)
	}

	var items []*jobs.Posting
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode postings file: %w", err)
	}
	return &jobs.Postings{Items: items}, nil
}

func buildSources(config *SourcesConfig, logger *zap.Logger) []scrape.Source {
	if config == nil {
		return nil
	}

	var sources []scrape.Source
	if src := config.RemoteOK; src != nil && src.Enabled {
		sources = append(sources, scrape.NewRemoteOK(src.Keywords, src.MaxResults, logger))
	}
	if src := config.WeWorkRemotely; src != nil && src.Enabled {
		sources = append(sources, scrape.NewWeWorkRemotely(src.Categories, src.MaxResults, logger))
	}
	return sources
}

// newParser wires the Gemini extractor when the ai section enables it; any
// setup problem degrades to the keyword fallback inside the parser.
func newParser(ctx context.Context, config *AIConfig, logger *zap.Logger) *parser.Parser {
	if config == nil || !config.Enabled || config.Gemini == nil {
		return parser.New(nil, logger)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Warn("gemini disabled, using keyword extraction",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
		return parser.New(nil, logger)
	}

	generator, err := parser.NewGeminiGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, logger)
	if err != nil {
		logger.Warn("gemini disabled, using keyword extraction", zap.Error(err))
		return parser.New(nil, logger)
	}

	return parser.New(generator, logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	))
}

// buildEnricher wires the Tavily-backed company resolver. A missing API key
// only disables enrichment; the run continues without company signals.
func buildEnricher(ctx context.Context, config *EnrichmentConfig, logger *zap.Logger) *enrich.Enricher {
	if config == nil || !config.Enabled || !config.EnrichCompanies {
		return nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "tavily api key",
		File: config.APIKeyFile,
		Env:  "TAVILY_API_KEY",
	})
	if err != nil {
		logger.Warn("enrichment disabled",
			zap.Error(err),
			zap.String("hint", "set enrichment.api-key-file or TAVILY_API_KEY_FILE"),
		)
		return nil
	}

	pacer := enrich.NewPacer(time.Duration(config.PacingInterval * float64(time.Second)))
	fetcher := enrich.NewTavilyFetcher(tavily.New(ctx, logger, apiKey), logger)
	resolver := enrich.NewResolver(fetcher, pacer, logger)

	return enrich.NewEnricher(resolver, logger)
}

func exportCSV(path string, shortlist []*jobs.ScoreBreakdown) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	if err := report.WriteCSV(file, shortlist); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// deliver sends the digest email when the email section enables it, asking
// for confirmation unless --auto-approve or --dry-run is set.
func deliver(cmd *cobra.Command, config *Config, shortlist []*jobs.ScoreBreakdown, digest string, logger *zap.Logger) error {
	if config.Email == nil || !config.Email.Enabled {
		return nil
	}
	if cmd.Flag("dry-run").Value.String() == "true" || cmd.Flag("skip-email").Value.String() == "true" {
		logger.Info("skipping email delivery", zap.String("reason", "requested by flag"))
		return nil
	}
	if config.Email.SMTP == nil {
		return fmt.Errorf("email.smtp section is required when email is enabled")
	}

	for cmd.Flag("auto-approve").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		if action == PromptNo {
			logger.Info("skipping email delivery", zap.String("reason", "got no from prompt"))
			return nil
		}
		if action == PromptYes {
			break
		}

		file, err := os.CreateTemp("", app+"-shortlist-*.csv")
		if err != nil {
			return fmt.Errorf("create dump file: %w", err)
		}
		if err := report.WriteCSV(file, shortlist); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
		logger.Info("dumped shortlist to file", zap.String("filename", file.Name()))
	}

	password := ""
	if config.Email.SMTP.PasswordFile != "" {
		loaded, err := secrets.Load(secrets.Source{
			Name: "smtp password",
			File: config.Email.SMTP.PasswordFile,
			Env:  "SMTP_PASSWORD",
		})
		if err != nil {
			return err
		}
		password = loaded
	}

	subject := fmt.Sprintf("Job digest: %d matching roles", len(shortlist))
	mailer := report.NewMailer(config.Email.SMTP.MailConfig, password, logger)
	return mailer.Send(subject, digest)
}
