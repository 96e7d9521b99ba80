package icon

// Icon identifies a symbol of the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Info
	Warn
	Film
	Added
	Removed
	Search
	Question
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "x",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "ok",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(￣ω￣;)",
		squares: "🟨",
	},
	Info: {
		emoji:   "ℹ️",
		nerd:    "",
		plain:   "i",
		kaomoji: "(・・ )?",
		squares: "🟦",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(°ロ°)",
		squares: "🟧",
	},
	Film: {
		emoji:   "🎬",
		nerd:    "",
		plain:   "*",
		kaomoji: "(⌐■_■)",
		squares: "⬛",
	},
	Added: {
		emoji:   "➕",
		nerd:    "",
		plain:   "+",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "🟩",
	},
	Removed: {
		emoji:   "➖",
		nerd:    "",
		plain:   "-",
		kaomoji: "(ノ_<。)",
		squares: "🟥",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "(ᓀ‸ᓂ)",
		squares: "🟪",
	},
	Question: {
		emoji:   "❓",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・_・ヾ",
		squares: "⬜",
	},
}
