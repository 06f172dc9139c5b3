package service

import (
	"fmt"
	"regexp"
	"strings"
)

// Minimax rejects overly long inputs; truncated text points the listener
// back to the article.
const (
	maxSpeechRunes = 500
	speechTrailer  = "... 更多详情请查看原文。"
	sentenceBreak  = "。"
)

var (
	newlineRe    = regexp.MustCompile(`\n+`)
	bulletRe     = regexp.MustCompile(`[-*]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SpeechText composes the spoken form of a summarized record.
func SpeechText(title, summary string) string {
	return prepareSpeechText(fmt.Sprintf("标题：%s。摘要内容：%s", title, summary))
}

// prepareSpeechText normalizes text for synthesis: newlines become
// sentence breaks, bullet markers are stripped, whitespace is collapsed
// and a pacing pause is inserted after each sentence.
func prepareSpeechText(content string) string {
	text := newlineRe.ReplaceAllString(content, sentenceBreak)
	text = bulletRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	text = strings.ReplaceAll(text, sentenceBreak, sentenceBreak+" ")

	runes := []rune(text)
	if len(runes) > maxSpeechRunes {
		text = string(runes[:maxSpeechRunes]) + speechTrailer
	}

	return text
}
