package main

import (
	"fmt"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/config"
	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/history"
	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/reconcile"
)

func newCmdApply() *cobra.Command {
	var (
		file   string
		dryRun bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Converge zones and rrsets to a desired-state file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := ctrl.Log.WithName("apply")
			ctx := cmd.Context()

			cfg, err := loadConfig(log)
			if err != nil {
				return err
			}
			state, err := config.LoadDesiredState(file)
			if err != nil {
				return err
			}
			log.Info("loaded desired state", "path", file, "zones", len(state.Zones), "rrsetGroups", len(state.RRSets), "absentGroups", len(state.Absent))

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			var store *history.Store
			if cfg.History.DBURL != "" {
				store, err = history.OpenFromURL(cfg.History.DBURL)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			r := &reconcile.Reconciler{
				Client:     client,
				Log:        ctrl.Log.WithName("reconcile"),
				DefaultTTL: cfg.DefaultTTL,
			}

			type run struct {
				op  string
				out reconcile.Outcome
			}
			var runs []run
			for _, z := range state.Zones {
				runs = append(runs, run{history.OpZone, r.ReconcileZone(ctx, z, dryRun)})
			}
			for _, g := range state.RRSets {
				runs = append(runs, run{history.OpRRSets, r.ReconcileRRSets(ctx, g.Zone, g.RRSets, dryRun)})
			}
			for _, g := range state.Absent {
				runs = append(runs, run{history.OpRRSetsAbsent, r.ReconcileRRSetsAbsent(ctx, g.Zone, g.RRSets, dryRun)})
			}

			outcomes := make([]reconcile.Outcome, 0, len(runs))
			failures := 0
			for _, rn := range runs {
				outcomes = append(outcomes, rn.out)
				if rn.out.Result == reconcile.ResultFailed {
					failures++
				}
				if store == nil {
					continue
				}
				if _, err := store.Record(ctx, rn.op, dryRun, rn.out); err != nil {
					log.Error(err, "failed to record history", "zone", rn.out.Name)
				}
			}

			if err := reconcile.WriteOutcomes(cmd.OutOrStdout(), output, outcomes); err != nil {
				return err
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d reconciliations failed", failures, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Desired-state YAML file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without applying them")
	cmd.Flags().StringVarP(&output, "output", "o", reconcile.FormatText, "Output format (text|yaml|json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
