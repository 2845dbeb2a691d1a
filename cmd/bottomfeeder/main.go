package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bottomfeeder/internal/config"
	"bottomfeeder/internal/database"
	"bottomfeeder/internal/pipeline"
	"bottomfeeder/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "bottomfeeder",
	Short:   "Scrape news articles and extract company facts",
	Long:    "bottomfeeder fetches configured article pages, extracts title/date/body, asks a completion model for company, CEO, and summary, and stores everything in SQLite.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bottomfeeder", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/bottomfeeder/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure article URLs, selectors, and the analyzer key env var.")
		return nil
	},
}

var initDBCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the database schema without running the pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Printf("Database ready: %s\n", db.Path())
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run [url...]",
	Short: "Fetch, extract, store, and analyze articles",
	Long:  "Processes the given URLs, or the configured article list when none are given. Each URL is handled independently; one failure never aborts the batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		// Missing credential halts here, before any URL is touched.
		pipe, err := pipeline.New(cfg, db)
		if err != nil {
			return err
		}

		urls := args
		if len(urls) == 0 {
			urls = cfg.Articles
		}
		if len(urls) == 0 {
			return fmt.Errorf("no article URLs: pass them as arguments or set 'articles' in the config")
		}

		result := pipe.Run(context.Background(), urls)

		fmt.Println()
		for _, o := range result.Outcomes {
			switch o.Status {
			case pipeline.StatusAnalyzed:
				fmt.Printf("ok       article %d saved and analyzed  %s\n", o.ArticleID, o.URL)
			case pipeline.StatusStored:
				fmt.Printf("partial  article %d saved, analysis pending  %s\n", o.ArticleID, o.URL)
			case pipeline.StatusSkipped:
				fmt.Printf("skip     article %d already processed  %s\n", o.ArticleID, o.URL)
			case pipeline.StatusFailed:
				fmt.Printf("fail     %s: %v\n", o.URL, o.Err)
			}
		}
		fmt.Printf("\n%d analyzed, %d stored, %d skipped, %d failed\n",
			result.Analyzed, result.Stored, result.Skipped, result.Failed)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Printf("Articles:          %d\n", stats.TotalArticles)
		fmt.Printf("Analyzed:          %d\n", stats.AnalyzedArticles)
		fmt.Printf("Pending analysis:  %d\n", stats.PendingAnalysis)
		return nil
	},
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web viewer",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if servePort == 0 {
			servePort = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", servePort)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, servePort)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (defaults to config)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "bottomfeeder.db")
	return database.Open(dbPath)
}
