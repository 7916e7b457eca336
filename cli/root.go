// Package cli is the planner command line: plans, region lookups and the
// strategy table, computed locally against a holiday dataset.
package cli

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warp/bridge-planner/holidays"
	"github.com/warp/bridge-planner/optimizer"
)

// app carries what every subcommand shares.
type app struct {
	holidaysFile string
	verbose      bool
	now          func() time.Time
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "planner",
		Short: "Turn a handful of leave days into the longest possible breaks",
		Long: `planner bridges public holidays and weekends with leave days, picking
the set of breaks that maximizes days off for a given leave budget.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&a.holidaysFile, "holidays", "", "holiday dataset TOML file (default: embedded dataset)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log optimizer activity to stderr")

	root.AddCommand(
		a.planCmd(),
		a.regionsCmd(),
		a.strategiesCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) dataset() (*holidays.Dataset, error) {
	if a.holidaysFile == "" {
		return holidays.Default(), nil
	}
	return holidays.LoadFile(a.holidaysFile)
}

func (a *app) logger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	if a.verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func (a *app) optimizer(cmd *cobra.Command) (*optimizer.Optimizer, *holidays.Provider, error) {
	ds, err := a.dataset()
	if err != nil {
		return nil, nil, err
	}
	provider := holidays.NewProvider(ds, 16)
	opt, err := optimizer.New(provider,
		optimizer.WithClock(a.now),
		optimizer.WithLogger(a.logger(cmd.ErrOrStderr())),
		optimizer.WithCacheSize(1),
	)
	if err != nil {
		return nil, nil, err
	}
	return opt, provider, nil
}
