package player

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFProbe reads durations from container metadata with ffprobe.
type FFProbe struct {
	// Binary is the ffprobe executable. Defaults to "ffprobe".
	Binary string
}

// Probe returns the duration of source in seconds.
func (p FFProbe) Probe(ctx context.Context, source string) (float64, error) {
	target, err := sanitizeMediaTarget(source)
	if err != nil {
		return 0, err
	}

	binary := p.Binary
	if binary == "" {
		binary = "ffprobe"
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		target,
	)
	cmd.SysProcAttr = sysProcAttr()

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", target, err)
	}

	return parseDuration(string(out))
}

func parseDuration(out string) (float64, error) {
	line := strings.TrimSpace(out)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	if line == "" || line == "N/A" {
		return 0, fmt.Errorf("no duration in ffprobe output")
	}

	d, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", line, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("non-positive duration %v", d)
	}
	return d, nil
}
