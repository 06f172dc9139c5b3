package service

import (
	"strings"
	"testing"
)

func TestSpeechTextComposition(t *testing.T) {
	got := SpeechText("新模型发布", "- 性能提升\n- 成本下降")

	if !strings.HasPrefix(got, "标题：新模型发布。 ") {
		t.Errorf("Expected title framing with pacing break, got %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Errorf("Expected newlines to be collapsed, got %q", got)
	}
	if strings.ContainsAny(got, "-*") {
		t.Errorf("Expected bullet markers to be stripped, got %q", got)
	}
}

func TestPrepareSpeechTextNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"newlines become sentence breaks",
			"第一行\n\n第二行",
			"第一行。 第二行",
		},
		{
			"bullets stripped and whitespace collapsed",
			"- 要点一   - 要点二",
			"要点一 要点二",
		},
		{
			"pause after each sentence",
			"一句。两句。",
			"一句。 两句。 ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prepareSpeechText(tt.in); got != tt.want {
				t.Errorf("prepareSpeechText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrepareSpeechTextTruncation(t *testing.T) {
	long := strings.Repeat("字", 800)
	got := prepareSpeechText(long)

	if !strings.HasSuffix(got, speechTrailer) {
		t.Errorf("Expected truncation trailer, got tail %q", got[len(got)-30:])
	}

	runes := []rune(got)
	if len(runes) != maxSpeechRunes+len([]rune(speechTrailer)) {
		t.Errorf("Expected %d runes plus trailer, got %d", maxSpeechRunes, len(runes))
	}
}

func TestPrepareSpeechTextShortInputUntouched(t *testing.T) {
	got := prepareSpeechText("简短文本")
	if got != "简短文本" {
		t.Errorf("Expected short text unchanged, got %q", got)
	}
}
