package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edwinsyarief/kizuna"
	"github.com/edwinsyarief/kizuna/internal/config"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given.
const defaultConfigFile = "kizuna.yaml"

// app carries the state shared by every subcommand.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}
	root := &cobra.Command{
		Use:   "kizuna",
		Short: "Slab arenas and object graph tooling",
		Long: `kizuna exercises the slab-allocated object graph: it runs seeded stress
workloads against an example world, writes default configuration files and
reports the arena capacities in effect.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./"+defaultConfigFile+" when present)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newStressCmd(a), newConfigCmd(a), newCapacitiesCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	switch {
	case a.cfgFile != "":
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", a.cfgFile, err)
		}
	default:
		if _, err := os.Stat(defaultConfigFile); err == nil {
			a.v.SetConfigFile(defaultConfigFile)
			if err := a.v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config %s: %w", defaultConfigFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking for %s: %w", defaultConfigFile, err)
		}
	}

	cfg, err := config.Decode(a.v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	kizuna.SetLogger(logger)
	return nil
}
