package notify

import (
	"fmt"
	"html"
	"math/rand"
	"regexp"
	"strings"
)

var (
	reCodeBlock     = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)\\n```")
	reInlineCode    = regexp.MustCompile("`([^`\\n]+)`")
	reHeader        = regexp.MustCompile("(?m)^#{1,6}\\s+(.+)$")
	reBullet        = regexp.MustCompile("(?m)^(\\s*)[-*]\\s+")
	reLink          = regexp.MustCompile("\\[([^\\]]+)\\]\\(([^)]+)\\)")
	reBold          = regexp.MustCompile("\\*\\*(.+?)\\*\\*")
	reStrikethrough = regexp.MustCompile("~~(.+?)~~")
	reItalic        = regexp.MustCompile("(?:^|[^*])\\*([^*\\n]+?)\\*(?:[^*]|$)")
)

// placeholderPrefix is randomized per-process to avoid collisions with
// real program output that happens to contain the literal token.
var placeholderPrefix = fmt.Sprintf("__PH%06d__", rand.Intn(999999))

type codeBlock struct {
	language string
	code     string
}

// hasMarkdown is a cheap pre-filter so plain command output skips the
// full regex pipeline.
func hasMarkdown(s string) bool {
	if strings.Contains(s, "```") ||
		strings.Contains(s, "**") ||
		strings.Contains(s, "~~") ||
		strings.ContainsRune(s, '`') ||
		strings.Contains(s, "](") {
		return true
	}
	for _, line := range strings.SplitN(s, "\n", 20) {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < 2 {
			continue
		}
		if trimmed[0] == '#' {
			return true
		}
		if (trimmed[0] == '-' || trimmed[0] == '*') && trimmed[1] == ' ' {
			return true
		}
		if strings.ContainsRune(trimmed, '*') {
			return true
		}
	}
	return false
}

// formatMarkdownToTelegramHTML converts markdown text to Telegram's HTML
// subset, keeping code blocks and inline code untouched by the rest of
// the conversion pipeline.
func formatMarkdownToTelegramHTML(input string) string {
	if input == "" {
		return ""
	}
	if !hasMarkdown(input) {
		return html.EscapeString(input)
	}

	text, blocks := extractCodeBlocks(input)
	text, inlineCodes := extractInlineCode(text)
	text = html.EscapeString(text)
	text = convertMarkdownPatterns(text)
	text = restoreCodeBlocks(text, blocks)
	text = restoreInlineCode(text, inlineCodes)
	return text
}

func extractCodeBlocks(input string) (string, []codeBlock) {
	var blocks []codeBlock
	result := reCodeBlock.ReplaceAllStringFunc(input, func(match string) string {
		parts := reCodeBlock.FindStringSubmatch(match)
		blocks = append(blocks, codeBlock{language: parts[1], code: parts[2]})
		return fmt.Sprintf("%sCODEBLOCK%d%s", placeholderPrefix, len(blocks)-1, placeholderPrefix)
	})
	return result, blocks
}

func extractInlineCode(input string) (string, []string) {
	var codes []string
	result := reInlineCode.ReplaceAllStringFunc(input, func(match string) string {
		parts := reInlineCode.FindStringSubmatch(match)
		codes = append(codes, parts[1])
		return fmt.Sprintf("%sINLINECODE%d%s", placeholderPrefix, len(codes)-1, placeholderPrefix)
	})
	return result, codes
}

func convertMarkdownPatterns(text string) string {
	text = reHeader.ReplaceAllString(text, "<b>$1</b>")
	text = reBullet.ReplaceAllString(text, "${1}• ")
	text = convertLinks(text)
	text = reBold.ReplaceAllString(text, "<b>$1</b>")
	text = reStrikethrough.ReplaceAllString(text, "<s>$1</s>")
	text = convertItalic(text)
	return text
}

// convertLinks only allows http/https/tg schemes, so recorded program
// output can't smuggle a javascript:/data: link into a notification.
func convertLinks(text string) string {
	return reLink.ReplaceAllStringFunc(text, func(match string) string {
		parts := reLink.FindStringSubmatch(match)
		linkText, url := parts[1], parts[2]
		url = strings.ReplaceAll(url, "&amp;", "&")
		lower := strings.ToLower(url)
		if !strings.HasPrefix(lower, "http://") &&
			!strings.HasPrefix(lower, "https://") &&
			!strings.HasPrefix(lower, "tg://") {
			return linkText + " (" + url + ")"
		}
		return fmt.Sprintf(`<a href="%s">%s</a>`, url, linkText)
	})
}

func convertItalic(text string) string {
	return reItalic.ReplaceAllStringFunc(text, func(match string) string {
		parts := reItalic.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		inner := parts[1]
		prefix, suffix := "", ""
		if len(match) > 0 && match[0] != '*' {
			prefix = string(match[0])
		}
		if len(match) > 0 && match[len(match)-1] != '*' {
			suffix = string(match[len(match)-1])
		}
		return prefix + "<i>" + inner + "</i>" + suffix
	})
}

func restoreCodeBlocks(text string, blocks []codeBlock) string {
	for i, block := range blocks {
		placeholder := fmt.Sprintf("%sCODEBLOCK%d%s", placeholderPrefix, i, placeholderPrefix)
		escaped := html.EscapeString(block.code)
		var replacement string
		if block.language != "" {
			replacement = fmt.Sprintf("<pre><code class=\"language-%s\">%s</code></pre>", block.language, escaped)
		} else {
			replacement = fmt.Sprintf("<pre><code>%s</code></pre>", escaped)
		}
		text = strings.Replace(text, placeholder, replacement, 1)
	}
	return text
}

func restoreInlineCode(text string, codes []string) string {
	for i, code := range codes {
		placeholder := fmt.Sprintf("%sINLINECODE%d%s", placeholderPrefix, i, placeholderPrefix)
		text = strings.Replace(text, placeholder, "<code>"+html.EscapeString(code)+"</code>", 1)
	}
	return text
}

// splitAtSafeBoundary splits s into <=maxLen chunks without breaking a
// partially-escaped HTML entity across a boundary.
func splitAtSafeBoundary(s string, maxLen int) []string {
	var parts []string
	for len(s) > maxLen {
		end := maxLen
		for j := end - 1; j >= 0 && j >= end-10; j-- {
			if s[j] == ';' {
				break
			}
			if s[j] == '&' {
				end = j
				break
			}
		}
		parts = append(parts, s[:end])
		s = s[end:]
	}
	if len(s) > 0 {
		parts = append(parts, s)
	}
	return parts
}
