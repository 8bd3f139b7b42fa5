package cmd

import (
	"fmt"
	"sort"

	"github.com/jrsteele09/go-dashboard/internal/tui"
	"github.com/jrsteele09/go-dashboard/listview"
	"github.com/jrsteele09/go-dashboard/oauthmodel"
	"github.com/jrsteele09/go-dashboard/resources"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show project totals and the most recent projects",
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		if err := a.requireSession(); err != nil {
			return err
		}
		metrics, err := a.client.Metrics(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total projects: %d\n", metrics.TotalProjects)

		statuses := make([]string, 0, len(metrics.ProjectsByStatus))
		for status := range metrics.ProjectsByStatus {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			fmt.Fprintf(out, "  %-12s %d\n", status, metrics.ProjectsByStatus[status])
		}

		fmt.Fprintln(out, "\nRecent projects:")
		fmt.Fprintln(out, tui.Table[resources.Project, *resources.Project](resources.Projects, metrics.RecentProjects, listview.Query{}))
		return nil
	}),
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through the public contact form",
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		subject, _ := cmd.Flags().GetString("subject")
		message, _ := cmd.Flags().GetString("message")

		req := oauthmodel.ContactRequest{Name: name, Email: email, Subject: subject, Message: message}
		if err := req.Validate(); err != nil {
			return err
		}
		if err := a.client.Contact(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Message sent.")
		return nil
	}),
}

func init() {
	contactCmd.Flags().String("name", "", "your name")
	contactCmd.Flags().String("email", "", "reply address")
	contactCmd.Flags().String("subject", "", "message subject")
	contactCmd.Flags().String("message", "", "message body")

	rootCmd.AddCommand(metricsCmd, contactCmd)
}
