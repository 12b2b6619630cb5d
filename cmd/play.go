package cmd

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/anisan-cli/mediapool/color"
	"github.com/anisan-cli/mediapool/icon"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/scenario"
	"github.com/anisan-cli/mediapool/style"
	"github.com/anisan-cli/mediapool/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var audioExtensions = []string{".mp3", ".ogg", ".flac", ".wav", ".m4a", ".opus", ".aac"}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntP("audio", "a", -1, "Number of audio engines")
	playCmd.Flags().IntP("video", "V", -1, "Number of video engines")
}

const doneChoice = "done"

var playCmd = &cobra.Command{
	Use:   "play <file|url>...",
	Short: "Control ad-hoc media items through a pool",
	Long: `Register the given files or URLs as media items and pick pool operations interactively.
Items with a known audio extension are audio items, everything else is video.`,
	Args:    cobra.MinimumNArgs(1),
	Example: "  mediapool play intro.mp4 theme.mp3 --video 1",
	Run: func(cmd *cobra.Command, args []string) {
		s := adhocScenario(args,
			lo.Must(cmd.Flags().GetInt("audio")),
			lo.Must(cmd.Flags().GetInt("video")),
		)
		handleErr(s.Validate())

		runner, err := newRunner(s)
		handleErr(err)
		defer func() { handleErr(runner.Close()) }()

		for {
			step, ok, err := askStep(runner)
			if errors.Is(err, terminal.InterruptErr) {
				return
			}
			handleErr(err)

			if !ok {
				return
			}

			if err := runner.Do(step); err != nil {
				fmt.Printf("%s %s: %s\n", icon.Get(icon.Fail), step, style.Fg(color.Red)(err.Error()))
				continue
			}

			fmt.Printf("%s %s\n", icon.Get(icon.Success), step)
			fmt.Print(resourceTable(runner.Pool().Snapshot()))
		}
	},
}

func guessType(src string) media.Type {
	ext := strings.ToLower(path.Ext(src))
	if lo.Contains(audioExtensions, ext) {
		return media.Audio
	}

	return media.Video
}

func adhocScenario(srcs []string, audio, video int) *scenario.Scenario {
	s := &scenario.Scenario{Name: "play"}

	if audio >= 0 {
		s.Capacity.Audio = lo.ToPtr(audio)
	}
	if video >= 0 {
		s.Capacity.Video = lo.ToPtr(video)
	}

	for i, src := range srcs {
		s.Items = append(s.Items, scenario.Item{
			ID:   fmt.Sprintf("%d-%s", i+1, util.SanitizeFilename(util.FileStem(filepath.Base(src)))),
			Type: string(guessType(src)),
			Name: filepath.Base(src),
			Src:  src,
		})
	}

	return s
}

// askStep prompts for the next step. ok is false once the user is done.
func askStep(runner *scenario.Runner) (step scenario.Step, ok bool, err error) {
	items := runner.Items()
	options := lo.Map(items, func(item *media.Item, _ int) string {
		return fmt.Sprintf("%s %s", item.ID(), style.Faint(string(item.Type())))
	})
	options = append(options, string(scenario.ActionBless), doneChoice)

	var choice int
	err = survey.AskOne(&survey.Select{
		Message: "Item",
		Options: options,
	}, &choice)
	if err != nil {
		return
	}

	switch {
	case choice == len(items)+1:
		return step, false, nil
	case choice == len(items):
		return scenario.Step{Action: scenario.ActionBless}, true, nil
	}

	step.Item = items[choice].ID()

	actions := lo.Filter(scenario.Actions(), func(a scenario.Action, _ int) bool {
		return a.NeedsItem()
	})

	var action string
	err = survey.AskOne(&survey.Select{
		Message: "Action",
		Options: lo.Map(actions, func(a scenario.Action, _ int) string { return string(a) }),
		Default: string(scenario.ActionPlay),
	}, &action)
	if err != nil {
		return
	}

	step.Action = scenario.Action(action)

	switch step.Action {
	case scenario.ActionSeek:
		var at string
		err = survey.AskOne(&survey.Input{Message: "Position in seconds"}, &at, survey.WithValidator(func(ans interface{}) error {
			_, err := strconv.ParseFloat(ans.(string), 64)
			return err
		}))
		if err != nil {
			return
		}
		step.At = lo.Must(strconv.ParseFloat(at, 64))
	case scenario.ActionPause:
		err = survey.AskOne(&survey.Confirm{Message: "Rewind to the beginning?", Default: false}, &step.Rewind)
		if err != nil {
			return
		}
	case scenario.ActionReregister:
		err = survey.AskOne(&survey.Input{Message: "New source (empty keeps the current one)"}, &step.Src)
		if err != nil {
			return
		}
	}

	return step, true, nil
}
