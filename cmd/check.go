// Package cmd implements the mediapool command-line interface.
package cmd

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/anisan-cli/mediapool/constant"
	"github.com/anisan-cli/mediapool/icon"
	"github.com/anisan-cli/mediapool/key"
	"github.com/anisan-cli/mediapool/player"
	"github.com/anisan-cli/mediapool/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// errMissingDependency is returned after the install hint has been printed.
type errMissingDependency string

func (e errMissingDependency) Error() string {
	return fmt.Sprintf("%s not found", string(e))
}

// checkDependencies verifies that the selected engine backend can be started.
// Only the mpv backend depends on an external executable.
func checkDependencies() error {
	if !strings.EqualFold(viper.GetString(key.Player), player.BackendMPV) {
		return nil
	}

	path := viper.GetString(key.PlayerMpvPath)
	if path == "" {
		path = "mpv"
	}

	if _, err := exec.LookPath(path); err != nil {
		printMissingDependencyError(path)
		return errMissingDependency(path)
	}

	return nil
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The engine backend needs '%s' but it was not found in your PATH.", dep))

	suggestion := fmt.Sprintf(
		"\n\nSet %s to %s for a dry run without playback.",
		style.New().Foreground(style.AccentColor).Render(key.Player),
		style.New().Foreground(style.AccentColor).Render(player.BackendMemory),
	)
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s%s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd), suggestion)
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
