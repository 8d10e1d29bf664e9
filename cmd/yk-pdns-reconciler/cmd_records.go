package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

func newCmdRecords() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect rrsets on the server",
		RunE:  func(cmd *cobra.Command, args []string) error { return cmd.Help() },
	}
	cmd.AddCommand(newCmdRecordsGet())
	return cmd
}

func newCmdRecordsGet() *cobra.Command {
	var recordType string

	cmd := &cobra.Command{
		Use:   "get ZONE [NAME]",
		Short: "Print the rrsets of a name (default: the zone apex)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ctrl.Log.WithName("records"))
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			name := dns.ZoneRoot
			if len(args) == 2 {
				name = args[1]
			}
			sets, err := lookupRecords(cmd.Context(), client, args[0], name, strings.ToUpper(recordType))
			if err != nil {
				return fmt.Errorf("provider %q: %w", cfg.Provider, err)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(sets); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVarP(&recordType, "type", "t", "", "Record type filter (default: all types)")
	return cmd
}

// lookupRecords checks that zone exists before reading the rrsets of name,
// so a missing zone is reported instead of an empty result.
func lookupRecords(ctx context.Context, client dns.Client, zone, name, recordType string) ([]dns.RRSet, error) {
	reader, ok := client.(dns.RecordReader)
	if !ok {
		return nil, fmt.Errorf("cannot look up records")
	}
	exists, err := client.ZoneExists(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("checking zone: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("zone %q does not exist", zone)
	}
	sets, err := reader.GetRecords(ctx, zone, name, recordType)
	if err != nil {
		return nil, fmt.Errorf("getting records: %w", err)
	}
	return sets, nil
}
