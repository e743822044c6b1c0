package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yashubustudio/profitprophet/prophet"
)

const envPrefix = "PROFITPROPHET"

func main() {
	cmd := newRootCmd(viper.New(), os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "prophet-cli: %s\n", prophet.UserMessage(err))
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "prophet-cli",
		Short:         "Find potential customers that resemble existing customers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env is not an error.
			_ = godotenv.Load()
			return loadConfigFile(v)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (json, yaml or toml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("log-json", false, "write logs as JSON")
	flags.StringArrayP("weight", "w", nil, `field weight in percent as "Field=Value" (repeatable; default: all standard fields at 100)`)
	for _, key := range []string{"config", "log-level", "log-json", "weight"} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newRunCmd(v), newFieldsCmd(v))
	return root
}

func loadConfigFile(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: read config %s: %w", prophet.ErrConfig, path, err)
	}
	return nil
}
