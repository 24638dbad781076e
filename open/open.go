// Package open hands scene files and asset folders to the desktop's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/quarrel-cli/quarrel/constant"
)

// Run opens path with the default handler for its type and waits for the handler to exit.
func Run(path string) error {
	return RunWith(path, "")
}

// RunWith opens path with app, or with the default handler when app is empty.
func RunWith(path, app string) error {
	cmd, err := Command(runtime.GOOS, path, app)
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Command builds the launcher invocation for goos.
func Command(goos, path, app string) (*exec.Cmd, error) {
	if app != "" {
		return withApp(goos, path, app)
	}

	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", path), nil
	case constant.Darwin:
		return exec.Command("open", "-W", path), nil
	case constant.Linux:
		return exec.Command("xdg-open", path), nil
	case constant.Android:
		return exec.Command("termux-open", path), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}

func withApp(goos, path, app string) (*exec.Cmd, error) {
	switch goos {
	case constant.Darwin:
		return exec.Command("open", "-W", "-a", app, path), nil
	case constant.Windows, constant.Linux:
		// editors like vim or code take the file as their only argument
		return exec.Command(app, path), nil
	case constant.Android:
		return exec.Command("termux-open", "--choose", path), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}
