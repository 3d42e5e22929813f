package extractor

import (
	"regexp"
	"strings"
)

// Heuristics for detecting bot-block, CAPTCHA and access-denied interstitials
// that sites serve instead of real content (often with a 200 or 403 status).

var blockPageTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)access\s*denied`),
	regexp.MustCompile(`(?i)^\s*403\s*$`),
	regexp.MustCompile(`(?i)forbidden`),
	regexp.MustCompile(`(?i)blocked`),
	regexp.MustCompile(`(?i)captcha`),
	regexp.MustCompile(`(?i)robot|bot\s*detection`),
	regexp.MustCompile(`(?i)just\s*a\s*moment`),
	regexp.MustCompile(`(?i)attention\s*required`),
	regexp.MustCompile(`(?i)security\s*check`),
	regexp.MustCompile(`(?i)please\s*verify`),
}

var blockPageBodyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)access\s*denied`),
	regexp.MustCompile(`(?i)you\s*have\s*been\s*blocked`),
	regexp.MustCompile(`(?i)captcha`),
	regexp.MustCompile(`(?i)enable\s*cookies`),
	regexp.MustCompile(`(?i)robot|bot\s*detection`),
	regexp.MustCompile(`(?i)security\s*check`),
	regexp.MustCompile(`(?i)just\s*a\s*moment`),
	regexp.MustCompile(`(?i)attention\s*required`),
	regexp.MustCompile(`(?i)403\s*forbidden`),
	regexp.MustCompile(`(?i)unauthorized`),
	regexp.MustCompile(`(?i)please\s*verify\s*you\s*are\s*human`),
}

const blockPageBodyScanLength = 2000

// LooksLikeBlockPage reports whether the page title or the leading body text
// matches a known block-page phrase
func LooksLikeBlockPage(title, text string) bool {
	t := strings.TrimSpace(title)
	for _, re := range blockPageTitlePatterns {
		if re.MatchString(t) {
			return true
		}
	}

	b := strings.TrimSpace(text)
	if len(b) > blockPageBodyScanLength {
		b = b[:blockPageBodyScanLength]
	}
	for _, re := range blockPageBodyPatterns {
		if re.MatchString(b) {
			return true
		}
	}

	return false
}
