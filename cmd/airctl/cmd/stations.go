package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/howstheair/dashboard/internal/backend"
	"github.com/howstheair/dashboard/internal/dashboard"
)

func newStationsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stations",
		Aliases: []string{"station", "st"},
		Short:   "Manage monitored stations",
	}
	cmd.AddCommand(
		newStationsListCommand(opts),
		newStationsSearchCommand(opts),
		newStationsFindCommand(opts),
		newStationsAddCommand(opts),
		newStationsRenameCommand(opts),
		newStationsToggleCommand(opts),
		newStationsRemoveCommand(opts),
	)
	return cmd
}

func stationID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid station id %q", arg)
	}
	return id, nil
}

func newStationsListCommand(opts *rootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List monitored stations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stations, err := opts.dashboard().Stations(cmd.Context(), search)
			if err != nil {
				return err
			}
			return opts.out.Stations(stations)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by station name or keyword")
	return cmd
}

func newStationsSearchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Look up stations to add",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := opts.dashboard().SearchStations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.out.SearchResults(results)
		},
	}
}

func newStationsFindCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Search as you type, one line per edit",
		Long: `Each line read from stdin replaces the search text. Lookups run once the
input has been quiet for SEARCH_DEBOUNCE; an empty line clears the results.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			done := make(chan struct{})
			defer close(done)

			updates := make(chan dashboard.SearchUpdate)
			session := opts.dashboard().NewSearchSession(opts.cfg.Dashboard.SearchDebounce, func(u dashboard.SearchUpdate) {
				select {
				case updates <- u:
				case <-done:
				}
			})
			defer session.Close()

			lines := make(chan string)
			go func() {
				defer close(lines)
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					select {
					case lines <- scanner.Text():
					case <-done:
						return
					}
				}
			}()

			var pending string
			for {
				select {
				case line, ok := <-lines:
					if !ok {
						if pending == "" {
							return nil
						}
						lines = nil
						continue
					}
					pending = strings.TrimSpace(line)
					session.Type(pending)
				case u := <-updates:
					if u.Keyword != pending {
						continue
					}
					if err := opts.out.SearchResults(u.Results); err != nil {
						return err
					}
					if lines == nil {
						return nil
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		},
	}
}

func newStationsAddCommand(opts *rootOptions) *cobra.Command {
	var req backend.CreateStationRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Start monitoring a station",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			station, err := opts.dashboard().CreateStation(cmd.Context(), opts.actor, req)
			if err != nil {
				return err
			}
			return opts.out.Station("Added", station)
		},
	}
	cmd.Flags().StringVar(&req.Keyword, "keyword", "", "lookup keyword (required)")
	cmd.Flags().StringVar(&req.StationName, "name", "", "display name (required)")
	cmd.Flags().IntVar(&req.UID, "uid", 0, "station UID from search (required)")
	_ = cmd.MarkFlagRequired("keyword")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}

func newStationsRenameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <keyword>",
		Short: "Change a station's lookup keyword",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := stationID(args[0])
			if err != nil {
				return err
			}
			station, err := opts.dashboard().RenameStation(cmd.Context(), opts.actor, id, args[1])
			if err != nil {
				return err
			}
			return opts.out.Station("Updated", station)
		},
	}
}

func newStationsToggleCommand(opts *rootOptions) *cobra.Command {
	var on, off bool
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Activate or deactivate a station",
		Long:  `Without --on or --off the station's current state is flipped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := stationID(args[0])
			if err != nil {
				return err
			}

			svc := opts.dashboard()
			ctx := cmd.Context()
			switch {
			case on:
				station, err := svc.SetStationActive(ctx, opts.actor, id, true)
				if err != nil {
					return err
				}
				return opts.out.Station("Activated", station)
			case off:
				station, err := svc.SetStationActive(ctx, opts.actor, id, false)
				if err != nil {
					return err
				}
				return opts.out.Station("Deactivated", station)
			default:
				station, err := svc.FlipStation(ctx, opts.actor, id)
				if err != nil {
					return err
				}
				return opts.out.Station("Toggled", station)
			}
		},
	}
	cmd.Flags().BoolVar(&on, "on", false, "activate the station")
	cmd.Flags().BoolVar(&off, "off", false, "deactivate the station")
	cmd.MarkFlagsMutuallyExclusive("on", "off")
	return cmd
}

func newStationsRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Stop monitoring a station",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := stationID(args[0])
			if err != nil {
				return err
			}
			if err := opts.dashboard().DeleteStation(cmd.Context(), opts.actor, id); err != nil {
				return err
			}
			return opts.out.Deleted(id)
		},
	}
}
