package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/quarrel-cli/quarrel/constant"
	"github.com/quarrel-cli/quarrel/icon"
	"github.com/quarrel-cli/quarrel/key"
	"github.com/quarrel-cli/quarrel/player"
	"github.com/quarrel-cli/quarrel/style"
	"github.com/spf13/viper"
)

// CheckDependencies exits when a binary the backend needs is missing from PATH.
// The simulator needs nothing. ffprobe is optional and only disables probing.
func CheckDependencies(backend string) {
	if backend == player.BackendSim {
		return
	}

	if _, err := exec.LookPath("mpv"); err != nil {
		printMissingDependencyError("mpv")
		os.Exit(1)
	}

	if viper.GetBool(key.PlayerProbe) {
		if _, err := exec.LookPath("ffprobe"); err != nil {
			viper.Set(key.PlayerProbe, false)
		}
	}
}

func installHint(dep string) string {
	pkg := dep
	if dep == "ffprobe" {
		pkg = "ffmpeg"
	}

	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install " + pkg
	case constant.Linux:
		return "sudo apt install " + pkg
	case constant.Windows:
		return "scoop install " + pkg
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd := installHint(dep); installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}
	suggestion += fmt.Sprintf("\n\nOr try the simulator: %s", style.Bold(constant.Quarrel+" --backend sim"))

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
