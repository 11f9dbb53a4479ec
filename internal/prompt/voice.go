// ABOUTME: Prebuilt analyst voices offered for speech synthesis
// ABOUTME: Maps voice identifiers to localized descriptions
package prompt

import "fmt"

// Voice is a prebuilt speech voice
type Voice struct {
	ID      string
	LabelZH string
	LabelEN string
}

// Label returns the description of v in l
func (v Voice) Label(l Language) string {
	if l == English {
		return v.LabelEN
	}
	return v.LabelZH
}

// Voices lists the selectable voices in display order
var Voices = []Voice{
	{ID: "Charon", LabelZH: "沉穩中年 (男)", LabelEN: "Deep Middle-aged (Male)"},
	{ID: "Fenrir", LabelZH: "嚴謹分析 (男)", LabelEN: "Analytical (Male)"},
	{ID: "Kore", LabelZH: "溫柔共感 (女)", LabelEN: "Gentle Empathetic (Female)"},
	{ID: "Zephyr", LabelZH: "優雅細膩 (女)", LabelEN: "Elegant (Female)"},
	{ID: "Puck", LabelZH: "年輕活力 (男)", LabelEN: "Youthful (Male)"},
}

// DefaultVoice is the voice used until the user picks another
const DefaultVoice = "Charon"

// LookupVoice finds a voice by ID
func LookupVoice(id string) (Voice, error) {
	for _, v := range Voices {
		if v.ID == id {
			return v, nil
		}
	}
	return Voice{}, fmt.Errorf("unknown voice %q", id)
}

// NextVoice returns the voice after id, wrapping around
func NextVoice(id string) Voice {
	for i, v := range Voices {
		if v.ID == id {
			return Voices[(i+1)%len(Voices)]
		}
	}
	return Voices[0]
}
