// ABOUTME: User-facing interface strings in each language
// ABOUTME: Terminal counterparts of the couch's labels and notices
package prompt

// Strings holds every label the interface shows
type Strings struct {
	Title       string
	Subtitle    string
	Placeholder string
	Send        string
	Voice       string
	StopVoice   string
	Image       string
	Analyzing   string
	Empty       string
	SwitchLang  string
	VoiceSelect string
}

var uiStrings = map[Language]Strings{
	Chinese: {
		Title:       "西格蒙德的長沙發",
		Subtitle:    "探索無意識的深度對話",
		Placeholder: "在此分享你的夢境... (Enter 傳送)",
		Send:        "傳送",
		Voice:       "聆聽分析",
		StopVoice:   "停止播放",
		Image:       "附加圖片",
		Analyzing:   "分析中...",
		Empty:       "這裡是安靜的診覽室。請隨意分享任何流經你腦海的思緒...",
		SwitchLang:  "English",
		VoiceSelect: "選擇導師聲線",
	},
	English: {
		Title:       "Sigmund's Couch",
		Subtitle:    "Deep Dialogues with the Unconscious",
		Placeholder: "Share your dreams... (Enter to send)",
		Send:        "Send",
		Voice:       "Listen to Analysis",
		StopVoice:   "Stop Playing",
		Image:       "Attach Image",
		Analyzing:   "Analyzing...",
		Empty:       "The consulting room is quiet. Feel free to share whatever thoughts flow through your mind...",
		SwitchLang:  "繁體中文",
		VoiceSelect: "Select Voice Tone",
	},
}

// UI returns the interface strings for l
func (l Language) UI() Strings {
	if s, ok := uiStrings[l]; ok {
		return s
	}
	return uiStrings[DefaultLanguage]
}
