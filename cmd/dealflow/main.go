package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbaille/dealflow/internal/assistant"
	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/config"
	"github.com/pbaille/dealflow/internal/logging"
	"github.com/pbaille/dealflow/internal/pipeline"
	"github.com/pbaille/dealflow/internal/seed"
	"github.com/pbaille/dealflow/internal/store"
)

var (
	// Global flags
	cfgPath  string
	dbPath   string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
)

// screenOwner marks commands that take over the terminal, so logs stay off it
const screenOwner = "screen-owner"

func main() {
	// A .env file is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "dealflow",
		Short:        "Deal flow pipeline board for startup investors",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.Database.Path = dbPath
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}

			if cmd.Annotations[screenOwner] == "true" && cfg.Logging.File == "" {
				logger = zap.NewNop()
				return nil
			}
			logger, err = logging.New(cfg.Logging)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", filepath.Join(config.DefaultDir(), "config.yaml"), "config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "catalog database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(moveCmd())
	rootCmd.AddCommand(actionCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(catalogCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(cfg.Database.Path)
}

// boardSeed picks the board contents: the catalog, a YAML seed file or the demo deals
func boardSeed() (board.Seed, error) {
	switch {
	case cfg.Board.FromCatalog:
		s, err := getStore()
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.BoardSeed()
	case cfg.Board.SeedFile != "":
		return seed.Load(cfg.Board.SeedFile)
	}
	return seed.Default(), nil
}

// mountSession builds a session from config
func mountSession() (*pipeline.Session, error) {
	bs, err := boardSeed()
	if err != nil {
		return nil, err
	}

	rules := assistant.DefaultRules()
	if cfg.Board.AssistantRules != "" {
		rules, err = assistant.LoadRules(cfg.Board.AssistantRules)
		if err != nil {
			return nil, err
		}
	}

	return pipeline.New(bs, pipeline.Options{
		ToastTTL:        cfg.ToastTTL(),
		ProcessingDelay: cfg.ProcessingDelay(),
		TouchCapable:    cfg.Board.Touch,
		Assistant:       assistant.New(rules),
		Logger:          logger,
	})
}

// boardFlags registers the seed-source flags shared by board commands
func boardFlags(cmd *cobra.Command, seedFile *string, fromCatalog *bool) {
	cmd.Flags().StringVar(seedFile, "seed", "", "YAML seed file (overrides config)")
	cmd.Flags().BoolVar(fromCatalog, "from-catalog", false, "mount the board from the catalog database")
}

func applyBoardFlags(cmd *cobra.Command, seedFile string, fromCatalog bool) {
	if cmd.Flags().Changed("seed") {
		cfg.Board.SeedFile = seedFile
	}
	if cmd.Flags().Changed("from-catalog") {
		cfg.Board.FromCatalog = fromCatalog
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
