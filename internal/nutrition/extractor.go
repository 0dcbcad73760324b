package nutrition

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shunonion-sudo/health-habits/internal/llm"
)

// extractionPrompt pins the model to the nine-line labeled report the
// parser expects. The parser still tolerates extra prose around the lines.
const extractionPrompt = `あなたは管理栄養士です。ユーザーの食事内容から栄養素を推定し、必ず次の9行の形式で回答してください。数値のみを記入し、説明は不要です。
カロリー: <数値> kcal
たんぱく質: <数値> g
脂質: <数値> g
炭水化物: <数値> g
ビタミンB6: <数値> mg
ビタミンD: <数値> µg
マグネシウム: <数値> mg
鉄分: <数値> mg
亜鉛: <数値> mg`

// fieldPatterns are compiled once, one independent pattern per nutrient:
// label, half- or full-width colon, then the first number on the line.
var fieldPatterns = compileFieldPatterns()

func compileFieldPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(fields))
	for index, nutrientField := range fields {
		patterns[index] = regexp.MustCompile(regexp.QuoteMeta(nutrientField.label) + `[^0-9:：\n]*[:：][^0-9\n]*([0-9]+(?:\.[0-9]+)?)`)
	}
	return patterns
}

// Extractor asks the completion service for a nutrient report and parses it.
type Extractor struct {
	completer llm.Client
}

func NewExtractor(completer llm.Client) *Extractor {
	return &Extractor{completer: completer}
}

// Extract returns the parsed vector together with the raw report text so
// callers can echo it back to the user. The error is only ever a service
// failure; parse misses degrade to zero-valued fields.
func (extractor *Extractor) Extract(ctx context.Context, mealText string) (Vector, string, error) {
	report, err := extractor.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: extractionPrompt},
		{Role: llm.RoleUser, Content: mealText},
	}, llm.Params{
		Temperature: 0,
		MaxTokens:   400,
		MaxRetries:  1,
	})
	if err != nil {
		return Vector{}, "", fmt.Errorf("nutrient extraction call: %w", err)
	}
	return ParseReport(report), strings.TrimSpace(report), nil
}

// ParseReport pulls the nine nutrient values out of a report. Each field is
// matched independently, so a garbled line costs only that field.
func ParseReport(report string) Vector {
	var vector Vector
	for index, nutrientField := range fields {
		match := fieldPatterns[index].FindStringSubmatch(report)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		*nutrientField.value(&vector) = value
	}
	return vector
}
