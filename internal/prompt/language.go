// ABOUTME: Conversation languages and their analyst instructions
// ABOUTME: Holds system instructions, opening prompts and fallback replies per language
package prompt

import (
	"fmt"
	"strings"
)

// Language selects the UI strings and the analyst's reply language
type Language string

const (
	Chinese Language = "zh"
	English Language = "en"
)

// DefaultLanguage is used when nothing else is configured
const DefaultLanguage = Chinese

// ParseLanguage accepts "zh" or "en" in any case
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Chinese:
		return Chinese, nil
	case English:
		return English, nil
	default:
		return "", fmt.Errorf("unsupported language %q (supported: zh, en)", s)
	}
}

// Toggle switches between the two languages
func (l Language) Toggle() Language {
	if l == English {
		return Chinese
	}
	return English
}

// SystemInstruction returns the analyst persona for l
func (l Language) SystemInstruction() string {
	if l == English {
		return systemInstructionEN
	}
	return systemInstructionZH
}

// OpeningPrompt is sent when the user submits an image-less, text-less turn
func (l Language) OpeningPrompt() string {
	if l == English {
		return "Analyst, please guide me into a dialogue with my unconscious."
	}
	return "分析師，請引導我開啟一段潛意識的對話。"
}

// FallbackReply is shown when the model returns no text
func (l Language) FallbackReply() string {
	if l == English {
		return "The depths of the unconscious are beyond words."
	}
	return "潛意識的深度難以言表。"
}

const systemInstructionZH = `你是一位資深的精神分析學家，深受西格蒙德·佛洛依德（Sigmund Freud）理論的啟發。
你的任務是提供深度、具啟發性的分析，而不僅僅是重複使用者的問題。

核心原則：
1. 分析無意識：探討使用者行為、情緒背後的潛意識動機、童年經驗、防衛機制（如壓抑、投射、合理化）。
2. 詮釋與延伸：當使用者分享一個點滴，請結合人格三我（本我、自我、超我）或性心理發展階段給予長篇且深刻的論述。
3. 語氣：專業、慈悲、睿智且略帶古典學術氣息。
4. 多模態能力：若使用者提供圖片（如夢境畫作、物品、照片），請以符號學與精神分析視角進行詮釋。
5. 語言：始終以繁體中文回應。

請記住：你的目標是協助使用者將「無意識」轉化為「意識」，幫助他們洞察內心的衝突。`

const systemInstructionEN = `You are a senior psychoanalyst deeply inspired by the theories of Sigmund Freud.
Your task is to provide deep, insightful interpretations rather than simply asking the user questions back.

Core Principles:
1. Analyze the Unconscious: Explore subconscious motives, childhood experiences, and defense mechanisms (e.g., repression, projection, rationalization).
2. Interpretation and Elaboration: When a user shares something, provide a lengthy and profound discourse, perhaps linking it to the Id, Ego, Superego, or psychosexual development stages.
3. Tone: Professional, compassionate, wise, and slightly classical/academic.
4. Multimodal: If a user provides an image (dreams, objects, photos), interpret it through a semiotic and psychoanalytic lens.
5. Language: Always respond in English.

Remember: Your goal is to help the user "make the unconscious conscious" and gain insight into their inner conflicts.`
