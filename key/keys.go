// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Playback - these keys select and tune the media backend driving each segment.
const (
	PlayerBackend         = "player.backend"
	PlayerAutoplay        = "player.autoplay"
	PlayerMuted           = "player.muted"
	PlayerMaxPlayAttempts = "player.max_play_attempts"
	PlayerTickIntervalMs  = "player.tick_interval_ms"
	PlayerProbe           = "player.probe"
	PlayerSimDuration     = "player.sim_default_duration"
	PlayerSimLoadDelayMs  = "player.sim_load_delay_ms"
)

// Scene Resolution - these keys govern how manifests and their assets are located.
const (
	SceneAssetsRoot   = "scene.assets_root"
	SceneMaxLineWords = "scene.max_line_words"
	SceneEditor       = "scene.editor"
)

// View Tracking - these keys configure the persistence of scene view counts.
const (
	ViewsEnable = "views.enable"
)

// Metrics - these keys configure the optional Prometheus endpoint.
const (
	MetricsAddress = "metrics.address"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the player's layout.
const (
	TUICaptionWidth = "tui.caption_width"
	TUIShowSpeakers = "tui.show_speakers"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
