package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xaenox/healthdesk/internal/assistant"
	"github.com/xaenox/healthdesk/internal/bot"
	"github.com/xaenox/healthdesk/internal/models"
	"github.com/xaenox/healthdesk/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// cliPrefix namespaces the local CLI user in the shared store
const cliPrefix = "cli:"

func (a *app) options() assistant.Options {
	return assistant.Options{
		TypingDelay: a.cfg.Chat.TypingDelay,
		MaxEntries:  a.cfg.Storage.MaxEntries,
	}
}

// withDesk opens the store and runs fn against the CLI user's desk
func (a *app) withDesk(cmd *cobra.Command, fn func(d *assistant.Desk) error) error {
	store, err := a.openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	d := assistant.New(storage.WithPrefix(store, cliPrefix), a.responder(), a.analyzer(), a.options(), a.logger)
	if err := d.Load(cmd.Context()); err != nil {
		a.logger.Warn("Failed to load session", zap.Error(err))
	}
	return fn(d)
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Telegram.Token == "" {
				return errors.New("telegram token is not configured (set TELEGRAM_TOKEN)")
			}

			store, err := a.openStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := bot.New(a.cfg.Telegram.Token, a.cfg.Telegram.Debug, store, a.responder(), a.analyzer(), a.options(), a.logger)
			if err != nil {
				a.logger.Error("Failed to create bot", zap.Error(err))
				return err
			}
			defer b.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				defer stop()
				return b.Start(ctx)
			})
			g.Go(func() error {
				return b.RefreshSessions(ctx, a.cfg.Session.RefreshInterval)
			})

			a.logger.Info("Bot started")
			if err := g.Wait(); err != nil {
				a.logger.Error("Bot error", zap.Error(err))
				return err
			}
			a.logger.Info("Bot stopped")
			return nil
		},
	}
}

func (a *app) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the health assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDesk(cmd, func(d *assistant.Desk) error {
				reply, err := d.Respond(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
				return nil
			})
		},
	}
}

func (a *app) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a medical report image or PDF and store the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := describeFile(args[0])
			if err != nil {
				return err
			}

			return a.withDesk(cmd, func(d *assistant.Desk) error {
				fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing %s (%s)...\n", file.Name, models.FormatSize(file.SizeBytes))
				record, err := d.Analyze(cmd.Context(), file)
				if err != nil {
					return fmt.Errorf("failed to upload file, please try again: %w", err)
				}
				return printJSON(cmd, record)
			})
		},
	}
}

func (a *app) reportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List stored reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDesk(cmd, func(d *assistant.Desk) error {
				return printJSON(cmd, d.Reports(cmd.Context()))
			})
		},
	}
}

func (a *app) queueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show the processed-report review queue (doctors only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDesk(cmd, func(d *assistant.Desk) error {
				reports, stats, err := d.ReviewQueue(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, struct {
					Stats   models.ReviewStats       `json:"stats"`
					Reports []models.ProcessedReport `json:"reports"`
				}{stats, reports})
			})
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in the local user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDesk(cmd, func(d *assistant.Desk) error {
				s, err := d.Login(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", s.DisplayName, s.Role)
				return nil
			})
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out the local user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDesk(cmd, func(d *assistant.Desk) error {
				return d.Logout(cmd.Context())
			})
		},
	}
}

func describeFile(path string) (*models.SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to select document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}

	file := &models.SelectedFile{
		URI:       "file://" + abs,
		MimeType:  mimeType,
		Name:      info.Name(),
		SizeBytes: info.Size(),
	}
	if !file.IsImage() && !file.IsPDF() {
		return nil, fmt.Errorf("unsupported file type %q: select an image or PDF", mimeType)
	}
	return file, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
