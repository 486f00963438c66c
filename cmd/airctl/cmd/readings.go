package cmd

import (
	"github.com/spf13/cobra"

	"github.com/howstheair/dashboard/internal/backend"
)

func newReadingsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "readings",
		Aliases: []string{"rd"},
		Short:   "Inspect synced AQI readings",
	}
	cmd.AddCommand(
		newReadingsListCommand(opts),
		newReadingsHistoryCommand(opts),
	)
	return cmd
}

func newReadingsListCommand(opts *rootOptions) *cobra.Command {
	var search, from, to string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the latest readings, syncing first when data is stale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := parseRange(from, to)
			if err != nil {
				return err
			}
			page, err := opts.dashboard().DataPage(cmd.Context(), backend.ReadingFilter{
				Search:    search,
				StartDate: r.Start,
				EndDate:   r.End,
			})
			if err != nil {
				return err
			}
			return opts.out.DataPage(page)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by station name")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	return cmd
}

func newReadingsHistoryCommand(opts *rootOptions) *cobra.Command {
	var station int
	var from, to string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List historical readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := parseRange(from, to)
			if err != nil {
				return err
			}
			readings, err := opts.dashboard().History(cmd.Context(), backend.HistoryFilter{
				StartDate: r.Start,
				EndDate:   r.End,
				StationID: station,
			})
			if err != nil {
				return err
			}
			return opts.out.Readings(readings)
		},
	}
	cmd.Flags().IntVar(&station, "station", 0, "only this station id")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	return cmd
}
