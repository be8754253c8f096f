package schema

import (
	"encoding/json"
	"testing"
)

func TestSynthesisSpecDefaults(t *testing.T) {
	spec := &SynthesisSpec{Text: "hello"}

	if err := spec.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if spec.Format != "mp3" {
		t.Fatalf("expected default format mp3, got %s", spec.Format)
	}
	if spec.SpeakingRate != 1.0 {
		t.Fatalf("expected default speaking_rate 1.0, got %f", spec.SpeakingRate)
	}
	if spec.Pitch != 0 {
		t.Fatalf("expected default pitch 0, got %f", spec.Pitch)
	}
}

func TestSynthesisSpecValidationErrors(t *testing.T) {
	tests := []struct {
		name          string
		spec          SynthesisSpec
		expectedError string
	}{
		{
			name:          "empty text",
			spec:          SynthesisSpec{},
			expectedError: "text is required",
		},
		{
			name:          "whitespace only text",
			spec:          SynthesisSpec{Text: "   "},
			expectedError: "text is required",
		},
		{
			name:          "speaking rate below range",
			spec:          SynthesisSpec{Text: "hi", SpeakingRate: 0.1},
			expectedError: "speaking_rate must be between 0.25 and 4",
		},
		{
			name:          "speaking rate above range",
			spec:          SynthesisSpec{Text: "hi", SpeakingRate: 5.0},
			expectedError: "speaking_rate must be between 0.25 and 4",
		},
		{
			name:          "pitch below range",
			spec:          SynthesisSpec{Text: "hi", Pitch: -25},
			expectedError: "pitch must be between -20 and 20",
		},
		{
			name:          "pitch above range",
			spec:          SynthesisSpec{Text: "hi", Pitch: 21},
			expectedError: "pitch must be between -20 and 20",
		},
		{
			name:          "unknown format",
			spec:          SynthesisSpec{Text: "hi", Format: "flac"},
			expectedError: `unsupported audio format "flac"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.expectedError)
			}
			if err.Error() != tt.expectedError {
				t.Fatalf("expected error %q, got %q", tt.expectedError, err.Error())
			}
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"out.mp3", "mp3"},
		{"out.wav", "wav"},
		{"out.WAV", "wav"},
		{"out.ogg", "ogg"},
		{"out.opus", "mp3"},
		{"out", "mp3"},
	}

	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.expected {
			t.Fatalf("FormatForPath(%q) = %q, expected %q", tt.path, got, tt.expected)
		}
	}
}

func TestEncodingForFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"mp3", "MP3"},
		{"wav", "LINEAR16"},
		{"ogg", "OGG_OPUS"},
		{"", "MP3"},
	}

	for _, tt := range tests {
		if got := EncodingForFormat(tt.format); got != tt.expected {
			t.Fatalf("EncodingForFormat(%q) = %q, expected %q", tt.format, got, tt.expected)
		}
	}
}

func TestSynthesizeResponseDecodesBase64Audio(t *testing.T) {
	body := []byte(`{"audioContent":"aGVsbG8="}`)

	var resp SynthesizeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if string(resp.AudioContent) != "hello" {
		t.Fatalf("expected decoded audio %q, got %q", "hello", resp.AudioContent)
	}
}
