package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/client"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/notifier"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/upcoming"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Resume the stored subscription and notify until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, v, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			started, err := a.session.Resume(ctx)
			if err != nil {
				return fmt.Errorf("resume: %w", err)
			}
			if !started {
				fmt.Fprintln(cmd.OutOrStdout(), "notifications are disabled; run subscribe first")
				return nil
			}
			logging.Info(a.logger, "watching for upcoming matches")
			<-ctx.Done()
			return nil
		},
	}
}

func newSubscribeCmd(v *viper.Viper) *cobra.Command {
	var (
		sports []string
		teams  []string
		noWait bool
	)
	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Enable notifications for the given sports and teams",
		Example: "  sports-notify subscribe --sports soccer,tennis\n" +
			"  sports-notify subscribe --teams Arsenal --no-wait",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, v, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			prefs, err := a.session.Subscribe(ctx, sports, teams)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "subscribed: sports=%s teams=%s\n", listOrAll(prefs.Sports), listOrAll(prefs.Teams))
			if noWait {
				return nil
			}
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&sports, "sports", nil, "comma-separated sport keys")
	cmd.Flags().StringSliceVar(&teams, "teams", nil, "comma-separated team names")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "save the subscription and exit instead of watching")
	return cmd
}

func newStatusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the client id, stored subscription and notified matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, v, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			st, err := a.session.Status(ctx)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st, a.set.Len(), a.cfg.StateBackend)
			return nil
		},
	}
}

func newUpcomingCmd(v *viper.Viper) *cobra.Command {
	var sports, teams []string
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List matches starting inside the window, soonest first",
		Long:  "List matches starting inside the window. Without --sports or --teams the stored subscription is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, v, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			if len(sports) == 0 && len(teams) == 0 {
				if prefs, ok, err := a.store.Preferences(ctx); err == nil && ok {
					sports, teams = prefs.Sports, prefs.Teams
				}
			}
			matches, err := a.api.Upcoming(ctx, sports, teams, a.cfg.WindowMinutes)
			if err != nil {
				return fmt.Errorf("fetch upcoming matches: %w", err)
			}
			upcoming.SortBySoonest(matches)
			printUpcoming(cmd.OutOrStdout(), matches, a.cfg.WindowMinutes)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&sports, "sports", nil, "comma-separated sport keys")
	cmd.Flags().StringSliceVar(&teams, "teams", nil, "comma-separated team names")
	return cmd
}

func printUpcoming(out io.Writer, matches []domain.Match, windowMinutes int) {
	if len(matches) == 0 {
		fmt.Fprintf(out, "no matches in the next %d minutes\n", windowMinutes)
		return
	}
	for _, m := range matches {
		fmt.Fprintf(out, "%-20s %s vs %s (%s) %s\n",
			notifier.FormatDateTime(m.StartTimeUTC, nil), m.HomeTeam, m.AwayTeam, m.Sport, m.Location)
	}
}

func printStatus(out io.Writer, st client.Status, notified int, backend string) {
	id := st.ClientID
	if id == "" {
		id = "(not assigned)"
	}
	fmt.Fprintf(out, "client id:     %s\n", id)
	fmt.Fprintf(out, "notifications: %s\n", enabledLabel(st.Preferences.NotificationsEnabled))
	fmt.Fprintf(out, "sports:        %s\n", listOrAll(st.Preferences.Sports))
	fmt.Fprintf(out, "teams:         %s\n", listOrAll(st.Preferences.Teams))
	fmt.Fprintf(out, "notified:      %d\n", notified)
	fmt.Fprintf(out, "state backend: %s\n", backend)
}

func enabledLabel(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func listOrAll(values []string) string {
	if len(values) == 0 {
		return "all"
	}
	return strings.Join(values, ",")
}
