package main

import (
	"fmt"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
)

func newCmdZones() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Inspect zones on the server",
		RunE:  func(cmd *cobra.Command, args []string) error { return cmd.Help() },
	}
	cmd.AddCommand(newCmdZonesList())
	return cmd
}

func newCmdZonesList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List zone names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ctrl.Log.WithName("zones"))
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			zones, err := client.ListZones(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing zones: %w", err)
			}
			for _, z := range zones {
				fmt.Fprintln(cmd.OutOrStdout(), z)
			}
			return nil
		},
	}
}
