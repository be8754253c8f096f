package schema

// Gemini generateContent request/response shapes, limited to the fields the
// TTS path uses.

type GeminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *GeminiBlob `json:"inlineData,omitempty"`
}

// GeminiBlob carries inline binary data. Data is base64 on the wire.
type GeminiBlob struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

type GeminiPrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type GeminiVoiceConfig struct {
	PrebuiltVoiceConfig GeminiPrebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type GeminiSpeechConfig struct {
	VoiceConfig GeminiVoiceConfig `json:"voiceConfig"`
}

type GeminiGenerationConfig struct {
	ResponseModalities []string            `json:"responseModalities"`
	SpeechConfig       *GeminiSpeechConfig `json:"speechConfig,omitempty"`
}

type GeminiGenerateRequest struct {
	Contents         []GeminiContent        `json:"contents"`
	GenerationConfig GeminiGenerationConfig `json:"generationConfig"`
}

type GeminiCandidate struct {
	Content GeminiContent `json:"content"`
}

type GeminiGenerateResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}
