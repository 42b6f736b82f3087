// Package fragmatch is the command line front end. Settings come from
// defaults, then an optional settings file, then FRAGMATCH_ environment
// variables and last of all flags.
package fragmatch

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andrew-torda/fragmatch/pkg/batch"
	"github.com/andrew-torda/fragmatch/pkg/config"
	"github.com/andrew-torda/fragmatch/pkg/logger"
)

// app is what every sub-command gets once settings are read.
type app struct {
	v        *viper.Viper
	settings string
	cfg      config.Config
	lg       *log.Logger
	load     batch.Loader
	bindErr  error
}

// NewRootCmd builds the command tree. Each call has its own viper, so
// tests can make as many as they like.
func NewRootCmd() *cobra.Command { return newApp().rootCmd() }

func newApp() *app { return &app{v: viper.New(), load: batch.FileLoader} }

// keep holds on to flag binding errors until setup can report them.
func (a *app) keep(err error) { a.bindErr = errors.Join(a.bindErr, err) }

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fragmatch",
		Short: "Secondary structure from characteristic vectors and searching structures for fragment patterns",
		Long: `fragmatch works on protein backbones. It reduces every window of
residues to a characteristic vector (CV), labels residues as helix,
strand or coil from the CVs and looks for the fragments of a reference
structure in other structures.`,
		Version:           "0.1.0",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.settings, "settings", "s", "", "settings file (yaml, toml or json)")
	pf.BoolP("debug", "d", false, "debug logging")
	pf.IntP("workers", "w", config.Default().Batch.Workers, "structures processed in parallel")
	pf.Int("window", config.Default().CV.Window, "residues per CV")
	a.keep(a.v.BindPFlag("debug", pf.Lookup("debug")))
	a.keep(a.v.BindPFlag("batch.workers", pf.Lookup("workers")))
	a.keep(a.v.BindPFlag("cv.window", pf.Lookup("window")))

	root.AddCommand(a.cvCmd(), a.annotateCmd(), a.matchCmd())
	return root
}

// setup reads settings and makes the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.bindErr != nil {
		return fmt.Errorf("binding flags: %w", a.bindErr)
	}
	if a.settings != "" {
		a.v.SetConfigFile(a.settings)
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.lg = logger.New(cfg.Debug, cmd.ErrOrStderr())
	return nil
}

func (a *app) runner() *batch.Runner { return batch.NewRunner(a.cfg, a.load, a.lg) }
