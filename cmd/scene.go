package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/AlecAivazis/survey/v2"
	"github.com/quarrel-cli/quarrel/color"
	"github.com/quarrel-cli/quarrel/icon"
	"github.com/quarrel-cli/quarrel/key"
	"github.com/quarrel-cli/quarrel/open"
	"github.com/quarrel-cli/quarrel/scene"
	"github.com/quarrel-cli/quarrel/style"
	"github.com/quarrel-cli/quarrel/util"
	"github.com/quarrel-cli/quarrel/views"
	"github.com/quarrel-cli/quarrel/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(sceneCmd)
}

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Create, list and inspect scenes",
}

func init() {
	sceneCmd.AddCommand(sceneListCmd)
	sceneListCmd.Flags().BoolP("top", "t", false, "List played scenes by view count, including deleted ones")
	sceneListCmd.SetOut(os.Stdout)
}

var sceneListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved scenes with their view counts",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("top")) {
			printTop(cmd)
			return
		}

		paths, err := scene.List()
		handleErr(err)

		if len(paths) == 0 {
			cmd.Printf("%s no scenes in %s\n", icon.Get(icon.Warn), where.Scenes())
			return
		}

		for _, path := range paths {
			id := util.FileStem(path)
			title := style.Faint("unreadable")
			if m, err := scene.Load(path); err == nil {
				title = m.Title
			}

			n, _ := views.Get(id)
			cmd.Printf("%s %s %s\n",
				style.Fg(color.Purple)(id),
				title,
				style.Faint(util.Quantify(n, "view", "views")),
			)
		}
	},
}

func printTop(cmd *cobra.Command) {
	records, err := views.Top()
	handleErr(err)

	if len(records) == 0 {
		cmd.Printf("%s nothing played yet\n", icon.Get(icon.Warn))
		return
	}

	for i, r := range records {
		cmd.Printf("%2d. %s %s %s\n",
			i+1,
			style.Fg(color.Purple)(r.Scene),
			r.Title,
			style.Faint(fmt.Sprintf("%s, last %s", util.Quantify(r.Count, "view", "views"), r.LastSeen.Format("2006-01-02"))),
		)
	}
}

func init() {
	sceneCmd.AddCommand(sceneShowCmd)
	sceneShowCmd.SetOut(os.Stdout)
}

var sceneShowCmd = &cobra.Command{
	Use:               "show [scene]",
	Short:             "Print a scene's script, resolved assets and validation result",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionScenes,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := scene.Find(args[0])
		handleErr(err)
		m, err := scene.Load(path)
		handleErr(err)

		cmd.Println(style.Title(m.Title))
		if m.Topic != "" {
			cmd.Println(style.Faint(m.Topic))
		}
		cmd.Println()

		root := m.Root(viper.GetString(key.SceneAssetsRoot))
		for i, n := range scene.Names {
			slot, ok := m.Slot(n)
			if !ok {
				cmd.Printf("%s %s\n\n", style.SegmentTab(i, n.String(), true), style.Faint("missing"))
				continue
			}

			label := n.String()
			if slot.Speaker != "" {
				label += " " + slot.Speaker
			}
			cmd.Printf("%s %s\n", style.SegmentTab(i, label, true), slot.Line)
			cmd.Printf("  %s %s\n", style.Faint("video"), scene.Resolve(root, "clips", slot.Video))
			cmd.Printf("  %s %s %s\n\n",
				style.Faint("audio"),
				scene.Resolve(root, "voices", slot.Audio),
				style.Faint(fmt.Sprintf("~%s", util.FormatClock(scene.EstimateSpeech(slot.Line)))),
			)
		}

		printReport(cmd, m.Validate(viper.GetInt(key.SceneMaxLineWords)))
	},
}

func printReport(cmd *cobra.Command, report *scene.Report) {
	for _, w := range report.Warnings {
		cmd.Printf("%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), w)
	}
	for _, err := range report.Errors {
		cmd.Printf("%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), err)
	}
	if report.OK() && len(report.Warnings) == 0 {
		cmd.Printf("%s ready to play\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	}
}

func init() {
	sceneCmd.AddCommand(sceneEditCmd)
	sceneEditCmd.SetOut(os.Stdout)
}

var sceneEditCmd = &cobra.Command{
	Use:               "edit [scene]",
	Short:             "Open a scene manifest in an editor and validate it afterwards",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionScenes,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := scene.Find(args[0])
		handleErr(err)
		handleErr(open.RunWith(path, viper.GetString(key.SceneEditor)))

		m, err := scene.Load(path)
		handleErr(err)
		printReport(cmd, m.Validate(viper.GetInt(key.SceneMaxLineWords)))
	},
}

func init() {
	sceneCmd.AddCommand(sceneSchemaCmd)
	sceneSchemaCmd.SetOut(os.Stdout)
}

var sceneSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of scene manifests",
	Run: func(cmd *cobra.Command, args []string) {
		schema, err := scene.Schema()
		handleErr(err)
		cmd.Println(string(schema))
	},
}

func init() {
	sceneCmd.AddCommand(sceneNewCmd)
	sceneNewCmd.Flags().StringP("output", "o", "", "Where to write the manifest. Defaults to the scenes directory")
	sceneNewCmd.SetOut(os.Stdout)
}

var sceneNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Write a new scene interactively",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := askManifest()
		handleErr(err)

		path := lo.Must(cmd.Flags().GetString("output"))
		if path == "" {
			path = filepath.Join(where.Scenes(), slug(m.Title))
		}

		handleErr(m.Write(path))
		cmd.Printf("%s wrote %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), m.Path())
		printReport(cmd, m.Validate(viper.GetInt(key.SceneMaxLineWords)))
	},
}

func askManifest() (*scene.Manifest, error) {
	var header struct {
		Title string
		Topic string
	}

	err := survey.Ask([]*survey.Question{
		{Name: "title", Prompt: &survey.Input{Message: "Title"}, Validate: survey.Required},
		{Name: "topic", Prompt: &survey.Input{Message: "Topic"}},
	}, &header)
	if err != nil {
		return nil, err
	}

	m := &scene.Manifest{Title: header.Title, Topic: header.Topic}
	speaker := ""
	for _, n := range scene.Names {
		var slot struct {
			Speaker string
			Line    string
			Video   string
			Audio   string
		}

		err := survey.Ask([]*survey.Question{
			{Name: "speaker", Prompt: &survey.Input{Message: fmt.Sprintf("Speaker %s", n), Default: speaker}},
			{Name: "line", Prompt: &survey.Input{Message: "Line"}, Validate: survey.ComposeValidators(survey.Required, validateLine)},
			{Name: "video", Prompt: &survey.Input{Message: "Video clip", Default: fmt.Sprintf("video_%d.mp4", n.Index()+1)}, Validate: survey.Required},
			{Name: "audio", Prompt: &survey.Input{Message: "Voice line", Default: fmt.Sprintf("voice_%s.mp3", strings.ToLower(n.String()))}, Validate: survey.Required},
		}, &slot)
		if err != nil {
			return nil, err
		}

		speaker = slot.Speaker
		m.Slots = append(m.Slots, scene.Slot{
			Name:    n,
			Speaker: slot.Speaker,
			Line:    slot.Line,
			Video:   slot.Video,
			Audio:   slot.Audio,
		})
	}

	return m, nil
}

func validateLine(answer any) error {
	line, ok := answer.(string)
	if !ok {
		return errors.New("line must be text")
	}
	if n := utf8.RuneCountInString(line); n > scene.MaxLineChars {
		return fmt.Errorf("%w: %d characters, limit is %d", scene.ErrLineTooLong, n, scene.MaxLineChars)
	}
	return nil
}

// slug turns a title into a file name.
func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteRune('-')
			dash = true
		}
	}

	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "scene"
	}
	return s
}
