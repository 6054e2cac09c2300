package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/nambiararyan24/portfolio/adapters/excel"
	"github.com/nambiararyan24/portfolio/adapters/postgres"
	"github.com/nambiararyan24/portfolio/app"
	"github.com/nambiararyan24/portfolio/domain/form"
	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/auth"
	"github.com/nambiararyan24/portfolio/internal/config"
	"github.com/nambiararyan24/portfolio/internal/container"
	"github.com/nambiararyan24/portfolio/internal/migration"
	"github.com/nambiararyan24/portfolio/internal/session"
	"github.com/nambiararyan24/portfolio/internal/submission"
	"github.com/nambiararyan24/portfolio/models"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "portfolio-cli",
		Short:         "Maintenance commands for the portfolio backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newMigrateCmd(),
		newCreateAdminCmd(),
		newScoreCmd(),
		newExportLeadsCmd(),
	)
	return rootCmd
}

// openDB loads the configuration and connects to the database
func openDB(ctx context.Context) (*sqlx.DB, *applog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := applog.NewLogger(applog.ParseLevel(cfg.LogLevel))
	db, err := container.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, logger, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, logger, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.NewRunner(logger)
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %s applied\n", runner.Version())
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a back office account",
		Long: `Create a back office account. The password may also be given through
the ADMIN_PASSWORD environment variable.

Example: portfolio-cli create-admin --email owner@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			db, logger, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := auth.NewService(postgres.NewAdminUserRepository(db), session.NewMemoryStore(), auth.WithLogger(logger))
			user, err := svc.CreateAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newScoreCmd() *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "score [contact-json]",
		Short: "Score a contact submission",
		Long: `Score a contact submission given as JSON, either as the argument or on stdin.

Example: echo '{"project_type":"E-commerce Store","company":"Acme","message":"..."}' | portfolio-cli score`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				src = strings.NewReader(args[0])
			}
			values, err := readValues(src)
			if err != nil {
				return err
			}

			if validate {
				schema := form.MustDefaultCatalog().MustGet(form.Contact)
				if errs := schema.ValidateAll(values); len(errs) > 0 {
					for _, name := range errs.Fields() {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", name, errs[name])
					}
					return fmt.Errorf("contact submission has %d invalid field(s)", len(errs))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), submission.ContactScore(values))
			return nil
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "Validate against the contact form before scoring")
	return cmd
}

func readValues(r io.Reader) (form.Values, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var values map[string]interface{}
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("invalid contact JSON: %w", err)
	}
	return form.Values(values), nil
}

func newExportLeadsCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "export-leads [path]",
		Short: "Export leads to an XLSX workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, logger, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			path := excel.ExportFileName(time.Now())
			if len(args) == 1 {
				path = args[0]
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}

			admin := app.NewAdminService(app.Repositories{Leads: postgres.NewLeadRepository(db)}, logger)
			n, err := admin.ExportLeads(cmd.Context(), models.ParseLeadFilter(filter), f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(path)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d leads to %s\n", n, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "Which leads to export: all, unread or read")
	return cmd
}
