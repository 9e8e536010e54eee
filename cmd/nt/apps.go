package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/nt/internal/launch"
	"github.com/nikbrunner/nt/internal/webapps"
)

func newAppsCmd(e *env) *cobra.Command {
	var copyURL bool

	cmd := &cobra.Command{
		Use:   "apps [name]",
		Short: "List web-app shortcuts or open one",
		Long: `Without a name, list the configured web apps. With a name, open that
app in the browser. Names match case-insensitively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue := webapps.New(e.cfg.WebApps)

			if len(args) == 0 {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tURL")
				for _, app := range catalogue.All() {
					fmt.Fprintf(w, "%s\t%s\n", app.Name, app.URL)
				}
				return w.Flush()
			}

			app, err := catalogue.Lookup(args[0])
			if err != nil {
				return err
			}
			if copyURL {
				if err := launch.Copy(app.URL); err != nil {
					return err
				}
				cmd.Printf("Copied %s\n", app.URL)
				return nil
			}
			cmd.Printf("Opening: %s\n", app.Name)
			return launch.Browser{}.Open(app.URL)
		},
	}

	cmd.Flags().BoolVarP(&copyURL, "copy", "y", false, "copy the URL instead of opening it")
	return cmd
}
