package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/nt/internal/feeds"
)

var errFeedsNotConfigured = errors.New("feeds not configured: set server_url or news_url")

func newFeedsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "Show hackathons, contests and developer news",
		Long: `Print a developer feed. Results come from the local cache while it is
fresh and are refreshed from the server otherwise.`,
	}
	cmd.AddCommand(
		newHackathonsCmd(e),
		newContestsCmd(e),
		newNewsCmd(e),
	)
	return cmd
}

// withFeeds runs fn against the feeds service and waits for background
// revalidation so the cache is written before exit.
func withFeeds(e *env, fn func(*feeds.Service) error) error {
	svc := e.feedsService()
	if svc == nil {
		return errFeedsNotConfigured
	}
	defer svc.Wait()
	return fn(svc)
}

func newHackathonsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "hackathons",
		Short: "List upcoming hackathons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withFeeds(e, func(svc *feeds.Service) error {
				list, err := svc.Hackathons(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TITLE\tDATES\tLOCATION\tPRIZE\tURL")
				for _, h := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", h.Title, h.Dates, h.Location, h.Prize, h.URL)
				}
				return w.Flush()
			})
		},
	}
}

func newContestsCmd(e *env) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "contests",
		Short: "List upcoming programming contests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withFeeds(e, func(svc *feeds.Service) error {
				ctx := cmd.Context()
				var (
					list []feeds.Contest
					err  error
				)
				if refresh {
					list, err = svc.RefreshContests(ctx)
				} else {
					list, err = svc.Contests(ctx)
				}
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tPLATFORM\tSTARTS\tDURATION\tURL")
				for _, c := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						c.Name, c.Platform, c.StartTime.Local().Format("Mon 02 Jan 15:04"), c.Duration.Round(time.Minute), c.URL)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")
	return cmd
}

func newNewsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "List developer news headlines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withFeeds(e, func(svc *feeds.Service) error {
				list, err := svc.News(cmd.Context())
				if err != nil {
					return err
				}
				for _, n := range list {
					meta := []string{}
					if n.Source != "" {
						meta = append(meta, n.Source)
					}
					if !n.PublishedAt.IsZero() {
						meta = append(meta, n.PublishedAt.Local().Format("2006-01-02"))
					}
					cmd.Println(n.Title)
					if len(meta) > 0 {
						cmd.Printf("  %s\n", strings.Join(meta, " · "))
					}
					cmd.Printf("  %s\n", n.URL)
				}
				return nil
			})
		},
	}
}
