package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xaenox/healthdesk/internal/analysis"
	"github.com/xaenox/healthdesk/internal/intent"
	"github.com/xaenox/healthdesk/internal/storage"
	"github.com/xaenox/healthdesk/pkg/config"
	"go.uber.org/zap"
)

type app struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "healthdesk",
		Short:         "Health assistant chatbot and report analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "path to the config file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		a.serveCmd(),
		a.askCmd(),
		a.analyzeCmd(),
		a.reportsCmd(),
		a.queueCmd(),
		a.loginCmd(),
		a.logoutCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) init() error {
	var err error
	if a.debug {
		a.logger, err = zap.NewDevelopment()
	} else {
		a.logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg, err = config.LoadConfig(a.configPath)
	if err != nil {
		a.logger.Error("Failed to load config", zap.Error(err), zap.String("path", a.configPath))
		return err
	}
	return nil
}

func (a *app) openStorage() (storage.KV, error) {
	store, err := storage.Open(storage.Options{
		Backend:    a.cfg.Storage.Backend,
		SQLitePath: a.cfg.Storage.SQLitePath,
		Postgres: storage.DatabaseConfig{
			Host:     a.cfg.Database.Host,
			Port:     a.cfg.Database.Port,
			User:     a.cfg.Database.User,
			Password: a.cfg.Database.Password,
			DBName:   a.cfg.Database.DBName,
			SSLMode:  a.cfg.Database.SSLMode,
		},
	}, a.logger)
	if err != nil {
		a.logger.Error("Failed to initialize storage", zap.Error(err))
		return nil, err
	}
	return store, nil
}

func (a *app) responder() intent.Responder {
	if a.cfg.Chat.Brief {
		return intent.Brief()
	}
	return intent.Default()
}

func (a *app) analyzer() analysis.Analyzer {
	if a.cfg.Analysis.Backend == "openai" {
		a.logger.Info("Using OpenAI report analysis", zap.String("model", a.cfg.OpenAI.Model))
		return analysis.NewOpenAIAnalyzer(
			a.cfg.OpenAI.APIKey,
			a.cfg.OpenAI.BaseURL,
			a.cfg.OpenAI.Model,
			a.cfg.OpenAI.MaxTokens,
			a.cfg.OpenAI.Temperature,
			a.logger,
		)
	}
	return analysis.NewMockAnalyzer(a.cfg.Analysis.Delay, a.logger)
}
