package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/config"
	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
	_ "github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns/providers"
)

var Version = "dev"

// flagConfigPath overrides PDNS_PROVIDER_PATH when set.
var flagConfigPath string

func newRootCmd() *cobra.Command {
	opts := zap.Options{
		Development: true,
	}

	cmd := &cobra.Command{
		Use:           "yk-pdns-reconciler",
		Short:         "Reconcile PowerDNS zones against a desired state",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRun: func(*cobra.Command, []string) {
			ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
		},
	}

	goFlags := flag.NewFlagSet("zap", flag.ExitOnError)
	opts.BindFlags(goFlags)
	cmd.PersistentFlags().AddGoFlagSet(goFlags)
	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Provider config file (env PDNS_PROVIDER_PATH, default configs/pdns-provider.yaml)")

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdApply())
	cmd.AddCommand(newCmdZones())
	cmd.AddCommand(newCmdRecords())
	cmd.AddCommand(newCmdHistory())
	return cmd
}

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(ctrl.SetupSignalHandler()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(log logr.Logger) (*config.ProviderConfig, error) {
	var (
		cfg *config.ProviderConfig
		err error
	)
	if flagConfigPath != "" {
		cfg, err = config.LoadProviderConfigFromPath(flagConfigPath)
	} else {
		cfg, err = config.LoadProviderConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load provider config: %w", err)
	}
	log.Info("loaded provider config", "provider", cfg.Provider)
	return cfg, nil
}

func newClient(cfg *config.ProviderConfig) (dns.Client, error) {
	client, err := dns.NewClient(cfg.Provider, ctrl.Log.WithName("dns-"+cfg.Provider), cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("unable to create DNS client: %w", err)
	}
	return client, nil
}
