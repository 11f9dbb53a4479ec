// ABOUTME: Tests for languages, interface strings and voices
// ABOUTME: Verifies parsing, toggling and voice rotation
package prompt

import (
	"strings"
	"testing"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input   string
		want    Language
		wantErr bool
	}{
		{"zh", Chinese, false},
		{"EN", English, false},
		{" en ", English, false},
		{"fr", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLanguage(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLanguage(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestToggle(t *testing.T) {
	if Chinese.Toggle() != English {
		t.Error("zh should toggle to en")
	}
	if English.Toggle() != Chinese {
		t.Error("en should toggle to zh")
	}
}

func TestSystemInstruction(t *testing.T) {
	if !strings.Contains(English.SystemInstruction(), "Always respond in English") {
		t.Error("English instruction should require English replies")
	}
	if !strings.Contains(Chinese.SystemInstruction(), "繁體中文") {
		t.Error("Chinese instruction should require Traditional Chinese replies")
	}
}

func TestUIStrings(t *testing.T) {
	en := English.UI()
	if en.Title != "Sigmund's Couch" {
		t.Errorf("unexpected title: %s", en.Title)
	}
	if en.Voice != "Listen to Analysis" || en.StopVoice != "Stop Playing" {
		t.Errorf("unexpected audio labels: %s / %s", en.Voice, en.StopVoice)
	}

	// The switch label names the other language
	if Chinese.UI().SwitchLang != "English" {
		t.Errorf("unexpected zh switch label: %s", Chinese.UI().SwitchLang)
	}

	if Language("xx").UI().Title != Chinese.UI().Title {
		t.Error("unknown language should fall back to default strings")
	}
}

func TestVoices(t *testing.T) {
	v, err := LookupVoice(DefaultVoice)
	if err != nil {
		t.Fatalf("default voice missing: %v", err)
	}
	if v.Label(English) != "Deep Middle-aged (Male)" {
		t.Errorf("unexpected label: %s", v.Label(English))
	}

	if _, err := LookupVoice("Nobody"); err == nil {
		t.Error("expected error for unknown voice")
	}

	if NextVoice("Puck").ID != "Charon" {
		t.Error("NextVoice should wrap around")
	}
	if NextVoice("Charon").ID != "Fenrir" {
		t.Error("NextVoice should advance")
	}
}
