// Package cmd implements the quarrel command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/quarrel-cli/quarrel/color"
	"github.com/quarrel-cli/quarrel/constant"
	"github.com/quarrel-cli/quarrel/icon"
	"github.com/quarrel-cli/quarrel/key"
	"github.com/quarrel-cli/quarrel/log"
	"github.com/quarrel-cli/quarrel/player"
	"github.com/quarrel-cli/quarrel/scene"
	"github.com/quarrel-cli/quarrel/style"
	"github.com/quarrel-cli/quarrel/util"
	"github.com/quarrel-cli/quarrel/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("backend", "b", "", "Media backend playing the segments")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Backends(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerBackend, rootCmd.Flags().Lookup("backend")))

	rootCmd.Flags().BoolP("autoplay", "a", false, "Start as soon as the first segment is buffered")
	lo.Must0(viper.BindPFlag(key.PlayerAutoplay, rootCmd.Flags().Lookup("autoplay")))

	rootCmd.Flags().BoolP("muted", "m", false, "Start with voice lines muted")
	lo.Must0(viper.BindPFlag(key.PlayerMuted, rootCmd.Flags().Lookup("muted")))

	rootCmd.Flags().String("assets", "", "Directory clip and voice references resolve against")
	lo.Must0(viper.BindPFlag(key.SceneAssetsRoot, rootCmd.Flags().Lookup("assets")))

	rootCmd.Flags().String("metrics", "", "Serve Prometheus metrics on this address while playing")
	lo.Must0(viper.BindPFlag(key.MetricsAddress, rootCmd.Flags().Lookup("metrics")))

	rootCmd.Flags().Bool("headless", false, "Play without the interface, printing one line per change")

	// Leftover mpv sockets from a previous run.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.Quarrel + " [scene]",
	Short: "Play four-line video debates in the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.Red).Render("    - Four speakers, four lines, one continuous scene"),
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: completionScenes,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		manifest, err := pickScene(query)
		handleErr(err)

		CheckDependencies(viper.GetString(key.PlayerBackend))

		handleErr(play(cmd.Context(), manifest, playOptions{
			Headless: lo.Must(cmd.Flags().GetBool("headless")) || !util.IsTerminal(),
			Out:      cmd.OutOrStdout(),
		}))
	},
}

func completionScenes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	paths, err := scene.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lo.Map(paths, func(p string, _ int) string { return util.FileStem(p) }), cobra.ShellCompDirectiveNoFileComp
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
