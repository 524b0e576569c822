package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/stargazer/internal/apod"
	"github.com/five82/stargazer/internal/app"
	"github.com/five82/stargazer/internal/config"
)

const envPrefix = "STARGAZER"

// flag name -> config key for settings that can be overridden per run.
var settingFlags = map[string]string{
	"api-key":   config.KeyAPIKey,
	"base-url":  config.KeyBaseURL,
	"cache-dir": config.KeyCacheDir,
	"log-file":  config.KeyLogFile,
	"prefer-hd": config.KeyPreferHD,
}

// exitError carries a process exit code without an extra message.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type rootState struct {
	v   *viper.Viper
	now func() time.Time
}

// NewRootCommand builds the stargazer command tree.
func NewRootCommand() *cobra.Command {
	st := &rootState{v: viper.New(), now: time.Now}
	st.v.SetEnvPrefix(envPrefix)
	st.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	st.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "stargazer",
		Short: "Browse NASA's Astronomy Picture of the Day from the terminal",
		Long: `stargazer fetches the Astronomy Picture of the Day for any date since
June 16, 1995, caches the image locally and shows its title, credit and
explanation.

Run without a subcommand to open the interactive viewer on today's picture.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          st.runViewer,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default "+config.DefaultPath()+")")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("api-key", "", "api.nasa.gov key (default DEMO_KEY)")
	pf.String("base-url", "", "APOD API base URL")
	pf.String("cache-dir", "", "image cache directory")
	pf.String("log-file", "", "diagnostics log file")
	pf.Bool("prefer-hd", false, "download the HD image when available")
	root.Flags().String("date", "", "start on this date (YYYY-MM-DD) instead of today")

	_ = st.v.BindPFlag("config", pf.Lookup("config"))
	_ = st.v.BindPFlag("verbose", pf.Lookup("verbose"))
	for flag, k := range settingFlags {
		_ = st.v.BindPFlag(k, pf.Lookup(flag))
	}
	for _, k := range config.Keys {
		_ = st.v.BindEnv(k)
	}

	root.AddCommand(
		newFetchCommand(st),
		newCacheCommand(st),
		newLogsCommand(st),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	errorColour.Fprintf(root.ErrOrStderr(), "stargazer: %v\n", err)
	return 1
}

// loadConfig reads the config file and folds in flag and environment
// overrides.
func (st *rootState) loadConfig() (config.Config, error) {
	cfg, err := config.Load(st.v.GetString("config"))
	if err != nil {
		return config.Config{}, err
	}
	for _, k := range config.Keys {
		if !st.v.IsSet(k) {
			continue
		}
		if err := cfg.Set(k, st.v.GetString(k)); err != nil {
			return config.Config{}, fmt.Errorf("override %s: %w", k, err)
		}
	}
	return cfg, nil
}

func (st *rootState) verbose() bool {
	return st.v.GetBool("verbose")
}

func (st *rootState) runViewer(cmd *cobra.Command, _ []string) error {
	cfg, err := st.loadConfig()
	if err != nil {
		return err
	}

	var start time.Time
	if raw, _ := cmd.Flags().GetString("date"); strings.TrimSpace(raw) != "" {
		start, err = apod.ParseDate(raw, st.now())
		if err != nil {
			return err
		}
	}

	return app.Run(cmd.Context(), app.Options{
		Config:  cfg,
		Verbose: st.verbose(),
		Date:    start,
	})
}
