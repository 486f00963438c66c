package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/howstheair/dashboard/internal/auth"
	"github.com/howstheair/dashboard/internal/dashboard"
)

func newSyncCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Trigger or inspect backend syncs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Sync every active station now",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := opts.dashboard().Sync(cmd.Context(), opts.actor)
				if err != nil {
					return err
				}
				return opts.out.SyncResult(res)
			},
		},
		&cobra.Command{
			Use:   "last",
			Short: "Show the most recent sync",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				last, err := opts.dashboard().LastSync(cmd.Context())
				if err != nil {
					return err
				}
				return opts.out.LastSync(last)
			},
		},
	)
	return cmd
}

func newDashboardCommand(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"overview"},
		Short:   "Show the AQI summary, category distribution and daily trend",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := opts.dashboard().Overview(cmd.Context(), dashboard.OverviewOptions{Days: days})
			if err != nil {
				return err
			}
			return opts.out.Overview(o)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "days in the trend (default from TREND_DAYS)")
	return cmd
}

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var operator string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the API",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if operator == "" {
				operator = opts.actor
			}
			jwt := auth.NewJWTService(auth.JWTConfig{
				SigningKey: opts.cfg.Auth.SigningKey,
				Issuer:     opts.cfg.Auth.Issuer,
				TTL:        opts.cfg.Auth.TokenTTL,
			})
			token, expiresAt, err := jwt.Issue(operator, ttl)
			if err != nil {
				return err
			}
			return opts.out.Token(token, expiresAt)
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "", "operator name (default --as)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_TOKEN_TTL)")
	return cmd
}
