package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kaljuvee/polygon-mcp/internal/analyst"
	"github.com/kaljuvee/polygon-mcp/internal/config"
	"github.com/kaljuvee/polygon-mcp/internal/guardrail"
	"github.com/kaljuvee/polygon-mcp/internal/llm"
	"github.com/kaljuvee/polygon-mcp/internal/narrative"
	"github.com/kaljuvee/polygon-mcp/internal/polygon"
	"github.com/kaljuvee/polygon-mcp/internal/store"
	"github.com/kaljuvee/polygon-mcp/pkg/logger"
)

var version = "0.1.0"

var configPath string

// NewRootCmd creates the root command. Running it with no subcommand
// starts the interactive chat session.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "polygon-mcp",
		Short: "Stock market analysis chat backed by Polygon.io",
		Long: `polygon-mcp answers natural-language questions about stocks using
live Polygon.io market data, with optional AI-generated analysis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newAskCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Answer a single market question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			app, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}

			out := app.analyst.HandleQuery(cmd.Context(), query)
			if out.Rejected() {
				renderRejection(out.Rejection)
				return nil
			}

			renderReport(out.Report)
			if save {
				path, err := app.analyst.Save(out.Report, out.Ticker)
				if err != nil {
					return err
				}
				renderSaved(path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "save the report to the reports directory")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current market status",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildGateway(cmd.Context())
			if err != nil {
				return err
			}

			res := app.gateway.MarketStatus(cmd.Context())
			if !res.OK() {
				return fmt.Errorf("fetch market status: %s", res.Failure.Detail)
			}

			printMarketStatus(res.Payload)
			return nil
		},
	}
}

func printMarketStatus(payload map[string]any) {
	market, _ := payload["market"].(string)
	serverTime, _ := payload["serverTime"].(string)
	fmt.Println(titleStyle.Render("Market Status"))
	fmt.Printf("  Market:      %s\n", valueOr(market, "unknown"))
	fmt.Printf("  Server time: %s\n", valueOr(serverTime, "unknown"))

	if exchanges, ok := payload["exchanges"].(map[string]any); ok {
		fmt.Println("  Exchanges:")
		for _, name := range []string{"nasdaq", "nyse", "otc"} {
			if status, ok := exchanges[name].(string); ok {
				fmt.Printf("    %-8s %s\n", name, status)
			}
		}
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager()
			if err != nil {
				return err
			}
			showConfig(mgr.Get())
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager()
			if err != nil {
				return err
			}
			fmt.Println(mgr.Path())
			return nil
		},
	})

	return configCmd
}

func showConfig(cfg config.Config) {
	fmt.Println(titleStyle.Render("Configuration"))
	fmt.Printf("  Reports dir:    %s\n", cfg.ReportsDir)
	fmt.Printf("  Polygon URL:    %s\n", cfg.PolygonBaseURL)
	fmt.Printf("  Polygon key:    %s\n", maskKey(cfg.PolygonAPIKey))
	fmt.Printf("  Price source:   %s\n", cfg.PriceSource)
	fmt.Printf("  News limit:     %d\n", cfg.NewsLimit)
	fmt.Printf("  Timeout:        %ds\n", cfg.RequestTimeout)
	fmt.Printf("  LLM provider:   %s\n", cfg.LLMProvider)
	switch cfg.LLMProvider {
	case config.ProviderDeepSeek:
		fmt.Printf("  Model:          %s\n", cfg.DeepSeekModel)
		fmt.Printf("  API key:        %s\n", maskKey(cfg.DeepSeekAPIKey))
	default:
		fmt.Printf("  Model:          %s\n", cfg.OpenAIModel)
		fmt.Printf("  API key:        %s\n", maskKey(cfg.OpenAIAPIKey))
	}
	fmt.Printf("  Log level:      %s\n", cfg.LogLevel)
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("polygon-mcp %s\n", version)
		},
	}
}

// app bundles the wired pipeline for one process.
type app struct {
	cfg     *config.Config
	gateway *polygon.Client
	analyst *analyst.Analyst
	log     zerolog.Logger
}

func newConfigManager() (*config.Manager, error) {
	var opts []config.ManagerOption
	if configPath != "" {
		opts = append(opts, config.WithConfigPath(configPath))
	}
	return config.NewManager(opts...)
}

// buildGateway wires only config and the market-data client; commands
// that never touch an LLM use it so they work without API keys for one.
func buildGateway(ctx context.Context) (*app, error) {
	mgr, err := newConfigManager()
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	if cfg.PolygonAPIKey == "" {
		return nil, fmt.Errorf("POLYGON_API_KEY is not set")
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: "stderr",
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     &cfg,
		gateway: polygon.NewClient(&cfg, log),
		log:     log,
	}, nil
}

// buildApp wires the full query pipeline from configuration.
func buildApp(ctx context.Context) (*app, error) {
	a, err := buildGateway(ctx)
	if err != nil {
		return nil, err
	}
	cfg := a.cfg

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	chatModel, err := llm.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize chat model: %w", err)
	}

	classifier := guardrail.NewClassifier(chatModel, a.log)
	augmenter := narrative.NewAugmenter(chatModel, a.log)
	reports := store.New(cfg.ReportsDir)

	a.analyst = analyst.New(classifier, a.gateway, augmenter, reports, a.log)
	return a, nil
}

// checkEnvironment warns about missing credentials before the chat
// session starts instead of failing on the first query.
func checkEnvironment(cfg *config.Config) {
	if cfg.PolygonAPIKey == "" {
		fmt.Fprintln(os.Stderr, warnStyle.Render("POLYGON_API_KEY is not set; market data requests will fail."))
	}
	switch cfg.LLMProvider {
	case config.ProviderDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			fmt.Fprintln(os.Stderr, warnStyle.Render("DEEPSEEK_API_KEY is not set."))
		}
	default:
		if cfg.OpenAIAPIKey == "" {
			fmt.Fprintln(os.Stderr, warnStyle.Render("OPENAI_API_KEY is not set."))
		}
	}
}
