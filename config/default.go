// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/quarrel-cli/quarrel/color"
	"github.com/quarrel-cli/quarrel/constant"
	"github.com/quarrel-cli/quarrel/key"
	"github.com/quarrel-cli/quarrel/style"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string

	// Choices restricts string values. Empty means any value.
	Choices []string
	// Min is the smallest accepted int value.
	Min     mo.Option[int]
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Quarrel + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Choices     []string `json:"choices,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
		Choices:     f.Choices,
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string, opts ...func(*Field)) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		for _, opt := range opts {
			opt(&f)
		}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}
	oneOf := func(choices ...string) func(*Field) {
		return func(f *Field) { f.Choices = choices }
	}
	atLeast := func(n int) func(*Field) {
		return func(f *Field) { f.Min = mo.Some(n) }
	}
	levels := lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string { return l.String() })

	register(key.PlayerBackend, "mpv", "Media backend used for every segment.\nAvailable options are: mpv, sim", oneOf("mpv", "sim"))
	register(key.PlayerAutoplay, false, "Try to start playback as soon as the first segment is ready.\nAudio still waits for a key press until you have interacted once")
	register(key.PlayerMuted, false, "Start with voice lines muted")
	register(key.PlayerMaxPlayAttempts, 3, "Consecutive failed play attempts on one segment before playback pauses with an error", atLeast(1))
	register(key.PlayerTickIntervalMs, 100, "Interval in milliseconds between playback position reads", atLeast(10))
	register(key.PlayerProbe, true, "Probe every voice line duration up front (ffprobe) so the scrub bar works before playback")
	register(key.PlayerSimDuration, 5.0, "Duration in seconds of simulated media when the sim backend has no better hint")
	register(key.PlayerSimLoadDelayMs, 150, "Simulated buffering latency in milliseconds for the sim backend", atLeast(0))
	register(key.SceneAssetsRoot, "", "Directory that /clips/ and /voices/ references resolve against.\nDefaults to the directory of the scene manifest")
	register(key.SceneMaxLineWords, 20, "Soft word limit for a single script line. Longer lines are reported as warnings", atLeast(1))
	register(key.SceneEditor, "", "Application used by `scene edit`. Empty uses the system default for yaml files")
	register(key.ViewsEnable, true, "Count scene views")
	register(key.MetricsAddress, "", "Listen address for the Prometheus /metrics endpoint, e.g. :9090. Empty disables it")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)", oneOf("emoji", "kaomoji", "plain", "squares", "nerd"))
	register(key.TUICaptionWidth, 60, "Maximum width of the caption block", atLeast(20))
	register(key.TUIShowSpeakers, true, "Show speaker names in the segment tabs")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace", oneOf(levels...))
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"join":     strings.Join,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}{{ if .Choices }}
{{ blue "Choices:" }} {{ join .Choices ", " }}{{ end }}`))
