package icon

// Icon identifies a UI symbol in the registry.
type Icon int

// Registered symbols.
const (
	Success Icon = iota
	Fail
	Warn
	Progress
	Play
	Pause
	Muted
	Unmuted
	Next
	Prev
	Ended
	Scene
	Speaker
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "ok",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "x",
		kaomoji: "(ಠ_ಠ)",
		squares: "🟥",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(・_・;)",
		squares: "🟨",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・・)つ",
		squares: "🟦",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(￣o￣)",
		squares: "⏸",
	},
	Muted: {
		emoji:   "🔇",
		nerd:    "",
		plain:   "mute",
		kaomoji: "(＞﹏＜)",
		squares: "⬛",
	},
	Unmuted: {
		emoji:   "🔊",
		nerd:    "",
		plain:   "vol",
		kaomoji: "(°o°)",
		squares: "⬜",
	},
	Next: {
		emoji:   "⏭️",
		nerd:    "",
		plain:   ">>",
		kaomoji: "(→_→)",
		squares: "⏭",
	},
	Prev: {
		emoji:   "⏮️",
		nerd:    "",
		plain:   "<<",
		kaomoji: "(←_←)",
		squares: "⏮",
	},
	Ended: {
		emoji:   "🏁",
		nerd:    "",
		plain:   "end",
		kaomoji: "(￣▽￣)ノ",
		squares: "⏹",
	},
	Scene: {
		emoji:   "🎬",
		nerd:    "",
		plain:   "#",
		kaomoji: "[▓▓]",
		squares: "🟪",
	},
	Speaker: {
		emoji:   "🗣️",
		nerd:    "",
		plain:   "@",
		kaomoji: "( ´∀`)",
		squares: "🟧",
	},
}
