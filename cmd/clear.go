package cmd

import (
	"fmt"

	"github.com/quarrel-cli/quarrel/filesystem"
	"github.com/quarrel-cli/quarrel/icon"
	"github.com/quarrel-cli/quarrel/internal/cache"
	"github.com/quarrel-cli/quarrel/util"
	"github.com/quarrel-cli/quarrel/views"
	"github.com/quarrel-cli/quarrel/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is something the clear command can remove.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() error
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), func() error { return filesystem.API().RemoveAll(where.Cache()) }},
	{"probed durations", "probes", mo.Some("p"), cache.Clear},
	{"view counts", "views", mo.Some("v"), views.Reset},
	{"temp directory", "temp", mo.Some("t"), func() error { return filesystem.API().RemoveAll(where.Temp()) }},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			handleErr(target.clear())
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
