package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Soundreaver/MarketWatchLite/internal/config"
)

// cli carries flag state and the wired app across cobra hooks.
type cli struct {
	v          *viper.Viper
	configFile string
	envFile    string
	noColor    bool
	app        *app
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	var view viewFlags

	root := &cobra.Command{
		Use:           "mwl",
		Short:         "Track a cryptocurrency watchlist in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.v, c.configFile, c.envFile)
			if err != nil {
				return err
			}
			c.app, err = newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd, view)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default mwl.yaml in . or the data dir)")
	pf.StringVar(&c.envFile, "env-file", ".env", "dotenv file to load before reading MWL_* variables")
	pf.BoolVar(&c.noColor, "no-color", false, "disable coloured output")
	pf.String("backend", "", "storage backend: file, memory, sqlite, redis or postgres")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	_ = c.v.BindPFlag("storage.backend", pf.Lookup("backend"))
	_ = c.v.BindPFlag("log.level", pf.Lookup("log-level"))

	view.register(root)

	root.AddCommand(
		c.newListCmd(),
		c.newWatchCmd(),
		c.newSearchCmd(),
		c.newShowCmd(),
		c.newAddCmd(),
		c.newRemoveCmd(),
		c.newToggleCmd(),
		c.newClearCmd(),
		c.newImportCmd(),
		c.newExportCmd(),
		c.newShareCmd(),
		c.newOpenCmd(),
	)
	return root
}

func (c *cli) color() bool {
	if c.noColor {
		return false
	}
	_, off := os.LookupEnv("NO_COLOR")
	return !off
}

func (c *cli) width() int {
	if w := detectTerminalWidth(); w > 0 {
		return w
	}
	return 80
}
