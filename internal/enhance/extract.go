package enhance

import "regexp"

// Completions are not reliably well-formed: a response may drop the
// closing tag, or wrap blocks in prose. Each pattern first tries the
// closed form, then falls back to everything after the opening tag.
var blockPatterns = map[string][2]*regexp.Regexp{
	"script": {
		regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`),
		regexp.MustCompile(`(?is)<script[^>]*>(.*?)(?:</script>|<style|$)`),
	},
	"style": {
		regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`),
		regexp.MustCompile(`(?is)<style[^>]*>(.*?)(?:</style>|<script|$)`),
	},
}

// ExtractBlock pulls the body of the first <script> or <style> block
// out of completion text, tolerating a missing closing tag. Returns ""
// when no block is present.
func ExtractBlock(content, tag string) string {
	patterns, ok := blockPatterns[tag]
	if !ok {
		return ""
	}
	for _, re := range patterns {
		if m := re.FindStringSubmatch(content); m != nil {
			return m[1]
		}
	}
	return ""
}
