package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix prefixes the environment variables that set flag defaults,
// e.g. WETWIRE_ECS_LOG_LEVEL for --log-level.
const envPrefix = "WETWIRE_ECS"

// applySettings fills every flag of cmd the user did not pass from the
// environment or the settings file. Explicit flags always win.
func applySettings(cmd *cobra.Command, settingsFile string) error {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if settingsFile == "" {
		settingsFile = os.Getenv(envPrefix + "_CONFIG")
	}
	if settingsFile != "" {
		v.SetConfigFile(settingsFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading settings %s: %w", settingsFile, err)
		}
	}

	flagSets := []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()}
	for _, fs := range flagSets {
		if err := v.BindPFlags(fs); err != nil {
			return err
		}
	}

	var setErr error
	for _, fs := range flagSets {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Changed || f.Name == "config" || !v.IsSet(f.Name) {
				return
			}
			val := fmt.Sprintf("%v", v.Get(f.Name))
			if val == "" {
				return
			}
			if err := f.Value.Set(val); err != nil && setErr == nil {
				setErr = fmt.Errorf("setting --%s from settings: %w", f.Name, err)
			}
		})
	}
	return setErr
}
