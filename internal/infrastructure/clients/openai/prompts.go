package openai

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yurift/drift/internal/domain/entities"
)

const (
	// maxPromptKeywords caps the feature keywords listed per facility
	maxPromptKeywords = 5
	// maxPhraseRunes is the length the prompt asks the model to stay within
	maxPhraseRunes = 15
)

const catchphraseSystemPrompt = "あなたは日帰り温泉のキャッチコピーライターです。ユーザーの気分（Vibe/Sensation）に合わせて、施設の魅力を15文字以内で表現してください。"

// buildCatchphraseUserPrompt lists the mood and the facilities, numbered in
// the order the phrases must come back.
func buildCatchphraseUserPrompt(facilities []entities.ScoredFacility, taste entities.TasteVector) string {
	vibes := taste.Vibes()
	labels := make([]string, len(vibes))
	for i, v := range vibes {
		labels[i] = v.Label()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ユーザーの気分:\nVibe: %s\nSensation: %s\n\n",
		strings.Join(labels, ", "), strings.Join(taste.SensationStrings(), ", "))
	fmt.Fprintf(&b, "以下の温泉施設に対して、この気分に合う魅力的なキャッチフレーズを%d文字以内で生成してください。\n\n", maxPhraseRunes)

	for i, sf := range facilities {
		keywords := sf.Facility.Keywords
		if len(keywords) > maxPromptKeywords {
			keywords = keywords[:maxPromptKeywords]
		}
		fmt.Fprintf(&b, "%d. %s\n   住所: %s\n   料金: %d円\n   特徴: %s\n\n",
			i+1, sf.Facility.Name, sf.Facility.Address, sf.Facility.Price, strings.Join(keywords, ", "))
	}

	b.WriteString("各施設のキャッチフレーズを以下の形式で出力してください:\n")
	for i := range facilities {
		fmt.Fprintf(&b, "%d. [キャッチフレーズ]\n", i+1)
	}
	fmt.Fprintf(&b, "\n注意:\n- %d文字以内\n- ユーザーの気分（Vibe/Sensation）を反映\n- 施設の特徴を活かす\n- 魅力的で行きたくなる表現\n", maxPhraseRunes)

	return b.String()
}

// parseCatchphrases extracts "N. phrase" lines in order. Lines that do not
// start with a digit are ignored; brackets around the phrase are stripped.
func parseCatchphrases(text string) []string {
	var phrases []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= 3 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if !unicode.IsDigit(first) {
			continue
		}

		phrase := line
		if idx := strings.Index(line, "."); idx >= 0 {
			phrase = line[idx+1:]
		}
		phrase = strings.Trim(strings.TrimSpace(phrase), "[]【】「」")
		phrases = append(phrases, phrase)
	}
	return phrases
}
