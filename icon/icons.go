package icon

// Icon identifies a UI symbol.
type Icon int

const (
	Lua Icon = iota
	Fail
	Success
	Progress
	Mark
	Audio
	Video
	Play
	Pause
	Muted
	Blessed
	Cursor
	Idle
)

var icons = map[Icon]*iconDef{
	Lua: {
		emoji:   "🌙",
		nerd:    "",
		plain:   "lua",
		kaomoji: "(◕‿◕)",
		squares: "◧",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "x",
		kaomoji: "(×﹏×)",
		squares: "▣",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "ok",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "■",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・_・)",
		squares: "◫",
	},
	Mark: {
		emoji:   "✅",
		nerd:    "",
		plain:   "*",
		kaomoji: "(＾▽＾)",
		squares: "◼",
	},
	Audio: {
		emoji:   "🎵",
		nerd:    "",
		plain:   "A",
		kaomoji: "♪(´ε` )",
		squares: "◰",
	},
	Video: {
		emoji:   "🎬",
		nerd:    "",
		plain:   "V",
		kaomoji: "(⌐■_■)",
		squares: "◳",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "ヽ(•‿•)ノ",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(－_－)",
		squares: "▮",
	},
	Muted: {
		emoji:   "🔇",
		nerd:    "",
		plain:   "m",
		kaomoji: "(˘_˘)",
		squares: "□",
	},
	Blessed: {
		emoji:   "✨",
		nerd:    "",
		plain:   "+",
		kaomoji: "(✿◠‿◠)",
		squares: "◆",
	},
	Cursor: {
		emoji:   "👉",
		nerd:    "",
		plain:   ">",
		kaomoji: "(☞ﾟヮﾟ)☞",
		squares: "▸",
	},
	Idle: {
		emoji:   "💤",
		nerd:    "",
		plain:   "-",
		kaomoji: "(－.－)",
		squares: "▫",
	},
}
