package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-params/pkg/activity"
)

const envPrefix = "PARAMCTL"

var version = "0.1.0"

type app struct {
	v      *viper.Viper
	out    io.Writer
	logger *log.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:           "paramctl",
		Short:         "Inspect and edit parameter settings files",
		Long:          "paramctl reads a catalog of parameter definitions and validates, reads and writes the settings file that holds their values.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("catalog", "catalog.yaml", "parameter catalog (YAML)")
	flags.String("settings", "settings.json", "settings file (.json, .yaml, .yml or .env)")
	flags.String("log-level", "warn", "log level (debug|info|warn|error)")
	flags.String("env-file", "", "dotenv file with PARAMCTL_* variables")
	flags.String("output", "text", "output format (text|json)")
	if err := a.v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("paramctl: bind flags: %v", err))
	}

	root.AddCommand(
		a.listCmd(),
		a.getCmd(),
		a.setCmd(),
		a.resetCmd(),
		a.checkCmd(),
		a.schemaCmd(),
	)
	return root
}

func (a *app) configure(errOut io.Writer) error {
	if path := a.v.GetString("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %q: %w", path, err)
		}
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	a.logger = log.NewWithOptions(errOut, log.Options{Prefix: "paramctl"})
	level, err := log.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", a.v.GetString("log-level"))
	}
	a.logger.SetLevel(level)

	switch a.v.GetString("output") {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output %q: want text or json", a.v.GetString("output"))
	}
	return nil
}

// changeLogger reports stores, resets and loads at info level.
func (a *app) changeLogger() activity.Hooks {
	return activity.Hooks{activity.HookFunc(func(_ context.Context, event activity.Event) error {
		a.logger.Info("settings changed", "verb", event.Verb, "key", event.Key, "value", event.Value)
		return nil
	})}
}
