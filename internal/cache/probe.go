package cache

import (
	"context"
	"fmt"

	"github.com/quarrel-cli/quarrel/filesystem"
	"github.com/quarrel-cli/quarrel/media"
)

type probed struct {
	Source   string  `json:"source"`
	Duration float64 `json:"duration"`
}

// Prober remembers durations read by inner. Local files are keyed by path, size and
// modification time so an edited voice line is probed again.
func Prober(inner media.Prober) media.Prober {
	return media.ProberFunc(func(ctx context.Context, source string) (float64, error) {
		key := probeKey(source)

		var entry probed
		if Read(key, &entry) && entry.Source == source {
			return entry.Duration, nil
		}

		d, err := inner.Probe(ctx, source)
		if err != nil {
			return 0, err
		}

		_ = Write(key, probed{Source: source, Duration: d})
		return d, nil
	})
}

func probeKey(source string) string {
	info, err := filesystem.API().Stat(source)
	if err != nil {
		return GenerateKey(source)
	}
	return GenerateKey(source, fmt.Sprint(info.Size()), fmt.Sprint(info.ModTime().UnixNano()))
}
