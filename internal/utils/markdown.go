package utils

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Markdown styles
func CodeBlockStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Padding(0, 1).
		MarginLeft(2)
}

func BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func ItalicStyle() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true)
}

func HeadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func LinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().Underline(true)
}

func ListStyle() lipgloss.Style {
	return lipgloss.NewStyle().MarginLeft(2)
}

var (
	orderedListRegex = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	inlineCodeRegex  = regexp.MustCompile("`[^`]+`")
	linkRegex        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldRegex        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRegex      = regexp.MustCompile(`_([^_]+)_`)
)

// RenderMarkdown applies basic markdown rendering to assistant output.
// It handles fenced code blocks, headings, lists and inline formatting;
// anything else passes through untouched.
func RenderMarkdown(text string) string {
	var result strings.Builder

	inCodeBlock := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			result.WriteString(CodeBlockStyle().Render(line) + "\n")
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "),
			strings.HasPrefix(trimmed, "## "),
			strings.HasPrefix(trimmed, "# "):
			heading := strings.TrimLeft(trimmed, "# ")
			result.WriteString(HeadingStyle().Render(renderInline(heading)) + "\n")
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			item := trimmed[2:]
			result.WriteString(ListStyle().Render("• "+renderInline(item)) + "\n")
		default:
			if matches := orderedListRegex.FindStringSubmatch(trimmed); len(matches) == 3 {
				result.WriteString(ListStyle().Render(matches[1]+". "+renderInline(matches[2])) + "\n")
				continue
			}
			result.WriteString(renderInline(line) + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}

// renderInline handles inline code, links, bold and italic. Code is styled
// first so its content is not reinterpreted as formatting.
func renderInline(line string) string {
	line = inlineCodeRegex.ReplaceAllStringFunc(line, func(match string) string {
		return CodeBlockStyle().Render(strings.Trim(match, "`"))
	})

	line = linkRegex.ReplaceAllStringFunc(line, func(match string) string {
		parts := linkRegex.FindStringSubmatch(match)
		return LinkStyle().Render(parts[1])
	})

	line = boldRegex.ReplaceAllStringFunc(line, func(match string) string {
		return BoldStyle().Render(strings.Trim(match, "*"))
	})

	line = italicRegex.ReplaceAllStringFunc(line, func(match string) string {
		return ItalicStyle().Render(strings.Trim(match, "_"))
	})

	return line
}
