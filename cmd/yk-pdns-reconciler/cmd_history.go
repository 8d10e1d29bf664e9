package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/history"
)

func newCmdHistory() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded reconciliation runs",
		RunE:  func(cmd *cobra.Command, args []string) error { return cmd.Help() },
	}
	cmd.AddCommand(newCmdHistoryList())
	return cmd
}

func newCmdHistoryList() *cobra.Command {
	var (
		zone  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ctrl.Log.WithName("history"))
			if err != nil {
				return err
			}
			if cfg.History.DBURL == "" {
				return fmt.Errorf("history is not configured (history.db_url)")
			}
			store, err := history.OpenFromURL(cfg.History.DBURL)
			if err != nil {
				return err
			}
			defer store.Close()

			if zone != "" {
				if zone, err = dns.NormalizeZoneName(zone); err != nil {
					return err
				}
			}
			entries, err := store.List(cmd.Context(), zone, limit)
			if err != nil {
				return fmt.Errorf("listing history: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tZONE\tOP\tDRY-RUN\tRESULT\tCOMMENT")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\t%s\n",
					e.ID, e.CreatedAt.Format(time.RFC3339), e.Zone, e.Operation, e.DryRun, e.Result, e.Comment)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&zone, "zone", "", "Only show runs for this zone")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs (0 for all)")
	return cmd
}
