package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/they4kman/minefield/config"
	"github.com/they4kman/minefield/store"
)

var log = logrus.WithField("pkg", "cmd")

var (
	v          = viper.New()
	configPath string
	appConfig  config.Config
)

var rootCmd = &cobra.Command{
	Use:   "minefield",
	Short: "Play manual or computer-driven Minesweeper in the terminal",
	Long: `minefield is a Minesweeper game which supports human- or
computer-driven playing, saving games in progress and keeping best times.

Run with no arguments to play a small game
	minefield

Pick a size, or give custom dimensions
	minefield play --size large
	minefield play -H 20 -W 20 -m 60

Make the computer play for you
	minefield autoplay --director constraint --games 10
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd.Root(), boundFlags); err != nil {
			return err
		}

		loaded, err := config.Load(v, configPath)
		if err != nil {
			return err
		}
		appConfig = loaded

		level, err := logrus.ParseLevel(appConfig.LogLevel)
		if err != nil {
			return errors.Wrap(err, "log_level")
		}
		logrus.SetLevel(level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, &rootGrid)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// boundFlags maps config keys to the persistent flags overriding them
var boundFlags = map[string]string{
	"data_dir":  "data-dir",
	"store":     "store",
	"log_level": "log-level",
}

func bindFlags(cmd *cobra.Command, flags map[string]string) error {
	for key, name := range flags {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind --%s to %s", name, key)
		}
	}
	return nil
}

func openStore() (store.Store, error) {
	return store.Open(appConfig.Store, appConfig.DataDir)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (YAML or TOML)")
	flags.String("data-dir", "", "Directory holding saved games and best times")
	flags.String("store", "", `Storage backend for saved games and best times: "file" or "badger"`)
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	registerGridFlags(rootCmd, &rootGrid)

	rootCmd.AddCommand(playCmd, autoplayCmd, bestCmd, clearCmd)
}
