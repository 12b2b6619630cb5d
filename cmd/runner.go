package cmd

import (
	"os"
	"path/filepath"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/log"
	"github.com/anisan-cli/mediapool/player"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/anisan-cli/mediapool/recent"
	"github.com/anisan-cli/mediapool/scenario"
	"github.com/anisan-cli/mediapool/util"
	"github.com/anisan-cli/mediapool/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// registry holds every pool created by this process.
var registry = pool.NewRegistry()

// newRunner builds a runner for s backed by the configured engine backend.
func newRunner(s *scenario.Scenario) (*scenario.Runner, error) {
	if err := checkDependencies(); err != nil {
		return nil, err
	}

	engines, err := player.Configured()
	if err != nil {
		return nil, err
	}

	return scenario.NewRunner(s, registry, engines)
}

// loadRunner loads the named scenario and builds its runner.
func loadRunner(name string) (*scenario.Runner, error) {
	s, err := scenario.Load(name)
	if err != nil {
		return nil, err
	}

	runner, err := newRunner(s)
	if err != nil {
		return nil, err
	}

	if err := recent.Remember(name, 1); err != nil {
		log.Warnf("remember scenario %s: %v", name, err)
	}

	return runner, nil
}

func completeScenarios(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names := recent.SuggestMany(toComplete)

	entries, err := filesystem.API().ReadDir(where.Scenarios())
	if err == nil {
		names = append(names, lo.FilterMap(entries, func(e os.FileInfo, _ int) (string, bool) {
			if e.IsDir() || !lo.Contains(scenario.Extensions, filepath.Ext(e.Name())) {
				return "", false
			}

			return util.FileStem(e.Name()), true
		})...)
	}

	return lo.Uniq(names), cobra.ShellCompDirectiveDefault
}
