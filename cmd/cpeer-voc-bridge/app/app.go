package app

import (
	"flag"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	genericapiserver "k8s.io/apiserver/pkg/server"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/cli/globalflag"
	"k8s.io/component-base/term"

	"github.com/autopeer-io/vocbridge/cmd/cpeer-voc-bridge/app/options"
	"github.com/autopeer-io/vocbridge/pkg/log"
)

const (
	commandName = "cpeer-voc-bridge"
	commandDesc = `The VOC bridge connects one vehicle of a Volvo On Call account to the
smart home. It keeps a cached copy of the vehicle state, refreshes it
periodically and runs remote commands (lock, heater, engine start, horn and
lights) on request, over HTTP and MQTT.`
)

func NewBridgeCommand() *cobra.Command {
	opts := options.NewBridgeOptions()
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:          commandName,
		Short:        "Bridge a Volvo On Call vehicle to HTTP and MQTT",
		Long:         commandDesc,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Load(v, cmd.Flags(), configFile); err != nil {
				return err
			}
			if err := opts.Complete(); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			log.Init(opts.Log)
			watchConfig(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
		Args: cobra.NoArgs,
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	fs := cmd.PersistentFlags()
	fs.StringVarP(&configFile, "config", "c", "", "Path to the config file. Defaults to ./configs/config.yaml when present.")

	namedfs := opts.Flags()
	globalflag.AddGlobalFlags(namedfs.FlagSet("global"), cmd.Name())
	for _, f := range namedfs.FlagSets {
		fs.AddFlagSet(f)
	}

	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cliflag.SetUsageAndHelpFunc(cmd, namedfs, cols)

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the bridge until interrupted (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	})
	cmd.AddCommand(newStatusCommand(opts))
	return cmd
}

func run(opts *options.BridgeOptions) error {
	ctx := genericapiserver.SetupSignalContext()

	cfg, err := opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	b, err := cfg.NewBridge(ctx)
	if err != nil {
		return fmt.Errorf("failed to create bridge: %w", err)
	}

	return b.Run(ctx)
}

// watchConfig hot-reloads the log level when the config file changes.
func watchConfig(v *viper.Viper) {
	if v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := v.GetString("log.level")
		log.SetLevel(level)
		log.Info("Config file changed", "file", e.Name, "log.level", level)
	})
	v.WatchConfig()
}
