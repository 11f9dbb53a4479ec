// ABOUTME: Wire shapes for the Gemini Live (BidiGenerateContent) API
// ABOUTME: JSON mirrors of the setup, client content and server messages
package gemini

// Content is one turn of a conversation
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a text or inline-data fragment of a turn
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64 media
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig contains the Live session's generation parameters
type GenerationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *SpeechConfig `json:"speechConfig,omitempty"`
}

// SpeechConfig configures speech output for audio responses
type SpeechConfig struct {
	VoiceConfig *VoiceConfig `json:"voiceConfig,omitempty"`
}

// VoiceConfig configures the voice for audio responses
type VoiceConfig struct {
	PrebuiltVoiceConfig *PrebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

// PrebuiltVoiceConfig specifies a prebuilt voice
type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

// liveSetupRequest is the first message of a Live session
type liveSetupRequest struct {
	Setup liveSetup `json:"setup"`
}

type liveSetup struct {
	Model            string           `json:"model"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// liveClientMessage carries one user turn over the Live socket
type liveClientMessage struct {
	ClientContent *liveClientContent `json:"clientContent,omitempty"`
}

type liveClientContent struct {
	Turns        []Content `json:"turns"`
	TurnComplete bool      `json:"turnComplete"`
}

// liveServerMessage is any message received over the Live socket
type liveServerMessage struct {
	SetupComplete *struct{}          `json:"setupComplete,omitempty"`
	ServerContent *liveServerContent `json:"serverContent,omitempty"`
}

type liveServerContent struct {
	ModelTurn    *Content `json:"modelTurn,omitempty"`
	TurnComplete bool     `json:"turnComplete"`
	Interrupted  bool     `json:"interrupted"`
}
