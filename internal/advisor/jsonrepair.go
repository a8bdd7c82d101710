package advisor

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// errNoJSONObject is returned when no balanced object can be located in the
// model output.
var errNoJSONObject = errors.New("no JSON object found in text")

var (
	fenceRe       = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe     = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// decodeLoose unmarshals model output that is supposed to be a JSON object
// but frequently is not quite one. It tries, in order: the text as-is, the
// contents of a markdown code fence, the first balanced {...} span, and
// finally that span after mechanical repairs. dst must be a pointer.
func decodeLoose(text string, dst any) error {
	candidates := []string{strings.TrimSpace(text)}
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}

	var firstErr error
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), dst); err == nil {
			return nil
		} else if firstErr == nil {
			firstErr = err
		}

		span, err := extractObject(candidate)
		if err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(span), dst); err == nil {
			return nil
		}
		if err := json.Unmarshal([]byte(repairJSON(span)), dst); err == nil {
			return nil
		}
	}

	if firstErr == nil {
		firstErr = errNoJSONObject
	}
	return firstErr
}

// extractObject returns the first balanced top-level {...} span in text.
// Braces inside string literals are ignored.
func extractObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", errNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errNoJSONObject
}

// repairJSON applies the small set of mechanical fixes that cover the bulk
// of almost-JSON model output: trailing commas, unquoted keys, and
// single-quoted strings.
func repairJSON(text string) string {
	text = trailingComma.ReplaceAllString(text, "$1")
	text = bareKeyRe.ReplaceAllString(text, `$1"$2":`)
	if !strings.Contains(text, `"`) && strings.Contains(text, "'") {
		text = strings.ReplaceAll(text, "'", `"`)
	}
	return text
}
