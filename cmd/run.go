package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/anisan-cli/mediapool/color"
	"github.com/anisan-cli/mediapool/icon"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/anisan-cli/mediapool/scenario"
	"github.com/anisan-cli/mediapool/style"
	"github.com/anisan-cli/mediapool/util"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("json", "j", false, "Print the step results as JSON")
	runCmd.Flags().BoolP("quiet", "q", false, "Only print the final engine table")
	runCmd.MarkFlagsMutuallyExclusive("json", "quiet")
}

var runCmd = &cobra.Command{
	Use:               "run <scenario>",
	Short:             "Replay a scenario against a fresh pool",
	Long:              `Load a scenario file, register its items with a new pool and execute its steps in order. Failed steps are reported and do not stop the run.`,
	Args:              cobra.ExactArgs(1),
	Example:           "  mediapool run pages\n  mediapool run ./story.yaml --json",
	ValidArgsFunction: completeScenarios,
	Run: func(cmd *cobra.Command, args []string) {
		runner, err := loadRunner(args[0])
		handleErr(err)
		defer func() { handleErr(runner.Close()) }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		asJSON := lo.Must(cmd.Flags().GetBool("json"))
		quiet := lo.Must(cmd.Flags().GetBool("quiet"))

		if !asJSON && !quiet {
			fmt.Println(style.Title(runner.Scenario().Title()))
			fmt.Println()
		}

		results, err := runner.Run(ctx, func(r scenario.Result) {
			if !asJSON && !quiet {
				fmt.Println(resultLine(r))
			}
		})

		if asJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(results))
			handleErr(err)
			return
		}

		handleErr(err)

		fmt.Println()
		fmt.Print(resourceTable(runner.Pool().Snapshot()))

		failed := lo.CountBy(results, scenario.Result.Failed)
		if failed > 0 {
			fmt.Printf("\n%s %s\n", icon.Get(icon.Fail), util.Quantify(failed, "step failed", "steps failed"))
		}
	},
}

func terminalWidth() int {
	width, _, err := util.TerminalSize()
	if err != nil || width <= 0 {
		return 80
	}

	return width
}

func resultLine(r scenario.Result) string {
	var line strings.Builder

	if r.Failed() {
		line.WriteString(style.Fg(color.Red)(icon.Get(icon.Fail)))
	} else {
		line.WriteString(style.Fg(color.Green)(icon.Get(icon.Success)))
	}

	fmt.Fprintf(&line, " %s %s", style.Faint(fmt.Sprintf("%02d", r.Index)), style.Bold(r.Step.String()))

	if r.Failed() {
		line.WriteString(" ")
		line.WriteString(style.Fg(color.Red)(r.Error))
	} else if r.Step.Item != "" {
		if engine, ok := r.Snapshot.Bindings[r.Step.Item]; ok {
			line.WriteString(" ")
			line.WriteString(style.Faint("on " + engine))
		}
	}

	return truncate.StringWithTail(line.String(), uint(terminalWidth()), "…")
}

func resourceTable(s pool.Snapshot) string {
	var b strings.Builder

	header := style.New().Foreground(color.HiBlue).Bold(true).Render
	for _, t := range media.Types() {
		fmt.Fprintf(&b, "%s %s\n",
			header(util.Capitalize(string(t))),
			style.Faint(fmt.Sprintf("%d/%d allocated", len(s.Allocated[t]), s.Capacity[t])),
		)

		for _, r := range s.Resources {
			if r.Type != t {
				continue
			}

			b.WriteString("  ")
			b.WriteString(resourceLine(r))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func resourceLine(r pool.ResourceState) string {
	state := icon.Get(icon.Idle)
	if r.Allocated {
		state = icon.Get(icon.Play)
		if r.Paused {
			state = icon.Get(icon.Pause)
		}
	}

	flags := make([]string, 0, 2)
	if r.Muted {
		flags = append(flags, icon.Get(icon.Muted))
	}
	if r.Blessed {
		flags = append(flags, icon.Get(icon.Blessed))
	}

	handle := style.Faint("free")
	if r.Allocated {
		handle = style.Fg(color.Yellow)(r.Handle)
	}

	line := fmt.Sprintf("%s %s %s %s", state, r.ID, handle, strings.Join(flags, " "))
	return truncate.StringWithTail(strings.TrimSpace(line), uint(terminalWidth()-2), "…")
}
