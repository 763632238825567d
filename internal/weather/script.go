package weather

import (
	"regexp"
	"strings"
)

// japaneseScript matches Hiragana, Katakana, CJK ideographs (incl. Ext-A) and
// half-width katakana.
var japaneseScript = regexp.MustCompile(`[\x{3040}-\x{30FF}\x{3400}-\x{4DBF}\x{4E00}-\x{9FAF}\x{FF66}-\x{FF9D}]`)

// ContainsJapanese reports whether text contains any Japanese-script code point.
// It is a coarse Unicode range test, not language detection.
func ContainsJapanese(text string) bool {
	return japaneseScript.MatchString(text)
}

var (
	edgePunct = regexp.MustCompile(`^[\s\x{3000}、。,.!！?？]+|[\s\x{3000}、。,.!！?？]+$`)
	spaces    = regexp.MustCompile(`[\s\x{3000}]+`)

	jaWeatherWords = []*regexp.Regexp{
		regexp.MustCompile(`の?天気(?:は|を|って)?`),
		regexp.MustCompile(`の?天候(?:は|を|って)?`),
		regexp.MustCompile(`の?予報(?:は|を|って)?`),
	}
	jaRequestSuffix = regexp.MustCompile(`(?:見せて|教えて|ください|下さい|お願いします?)$`)
	jaParticle      = regexp.MustCompile(`(?:について|[はがをにでへとやも])$`)

	enPrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:what(?:'s|’s|\s+is)\s+)?the\s+weather\s+(?:in|at|for)\s+`),
		regexp.MustCompile(`(?i)^(?:weather|forecast)\s+(?:in|at|for|around)\s+`),
	}
	enSuffix = regexp.MustCompile(`(?i)\b(?:weather|forecast)$`)
)

// maxParticleStrips bounds particle removal so names like "とやま" keep their tail.
const maxParticleStrips = 2

// NormalizeLocationName reduces free-form input such as "weather in Kyoto" or
// "富士山の天気を教えてください" to a bare place name.
func NormalizeLocationName(input string) string {
	text := edgePunct.ReplaceAllString(strings.TrimSpace(input), "")

	if ContainsJapanese(text) {
		for _, re := range jaWeatherWords {
			text = re.ReplaceAllString(text, "")
		}
		text = stripRepeatedly(text, jaRequestSuffix, -1)
		text = stripRepeatedly(strings.TrimSpace(text), jaParticle, maxParticleStrips)
	} else {
		for _, re := range enPrefixes {
			text = re.ReplaceAllString(text, "")
		}
		text = enSuffix.ReplaceAllString(strings.TrimSpace(text), "")
	}

	text = edgePunct.ReplaceAllString(text, "")
	return strings.TrimSpace(spaces.ReplaceAllString(text, " "))
}

// stripRepeatedly removes trailing matches of re until none remain, the string
// would become empty, or limit removals happened (limit < 0 means unbounded).
func stripRepeatedly(text string, re *regexp.Regexp, limit int) string {
	for n := 0; limit < 0 || n < limit; n++ {
		next := re.ReplaceAllString(text, "")
		if next == text || strings.TrimSpace(next) == "" {
			return text
		}
		text = next
	}
	return text
}
