package widget

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParser
}

// Markdown renders markdown source as styled terminal text wrapped to
// width. Soft line breaks become spaces so the text reflows.
func Markdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	r := &markdownRenderer{source: source, theme: theme, width: width}
	ast.Walk(document, r.walk)
	return strings.TrimRight(r.output.String(), "\n")
}

// markdownRenderer accumulates inline content per block and wraps it when
// the block closes.
type markdownRenderer struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder
	inline strings.Builder

	bold, italic, strike int

	bullets       []string
	ordinals      []int
	pendingBullet string
	indent        int

	trailingNewlines int
}

func (r *markdownRenderer) write(s string) {
	if s == "" {
		return
	}
	r.output.WriteString(s)
	trailing := len(s) - len(strings.TrimRight(s, "\n"))
	if trailing == len(s) {
		r.trailingNewlines += trailing
	} else {
		r.trailingNewlines = trailing
	}
}

func (r *markdownRenderer) ensureNewline() {
	if r.trailingNewlines < 1 && r.output.Len() > 0 {
		r.write("\n")
	}
}

func (r *markdownRenderer) ensureBlankLine() {
	if r.output.Len() == 0 {
		return
	}
	for r.trailingNewlines < 2 {
		r.write("\n")
	}
}

func (r *markdownRenderer) contentWidth() int {
	w := r.width - r.indent
	if w < 10 {
		w = 10
	}
	return w
}

func (r *markdownRenderer) styled(s string) string {
	style := lipgloss.NewStyle().Foreground(r.theme.Text)
	if r.bold > 0 {
		style = style.Bold(true).Foreground(r.theme.Primary)
	}
	if r.italic > 0 {
		style = style.Italic(true)
	}
	if r.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(s)
}

// flush wraps the inline buffer and applies the list indent, using the
// pending bullet on the first line.
func (r *markdownRenderer) flush() {
	content := r.inline.String()
	r.inline.Reset()
	if content == "" {
		return
	}
	wrapped := ansi.Wrap(content, r.contentWidth(), " ,.;-+|")
	pad := strings.Repeat(" ", r.indent)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		if i == 0 && r.pendingBullet != "" {
			r.write(r.pendingBullet + line)
			r.pendingBullet = ""
		} else {
			r.write(pad + line)
		}
		r.write("\n")
	}
}

func (r *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if !entering {
			r.flush()
			if len(r.bullets) == 0 {
				r.ensureBlankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			r.inline.Reset()
			return ast.WalkContinue, nil
		}
		heading := ansi.Strip(r.inline.String())
		r.inline.Reset()
		style := lipgloss.NewStyle().Bold(true).Foreground(r.theme.Primary)
		if node.(*ast.Heading).Level > 2 {
			style = style.Foreground(r.theme.Secondary)
		}
		r.ensureBlankLine()
		r.write(ansi.Wrap(style.Render(heading), r.contentWidth(), " "))
		r.write("\n\n")

	case ast.KindList:
		list := node.(*ast.List)
		if entering {
			r.flush()
			bullet := "• "
			if list.IsOrdered() {
				bullet = ""
			}
			r.bullets = append(r.bullets, bullet)
			r.ordinals = append(r.ordinals, list.Start)
		} else {
			r.bullets = r.bullets[:len(r.bullets)-1]
			r.ordinals = r.ordinals[:len(r.ordinals)-1]
			if len(r.bullets) == 0 {
				r.ensureBlankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			r.flush()
			depth := len(r.bullets) - 1
			bullet := r.bullets[depth]
			if bullet == "" {
				bullet = strconv.Itoa(r.ordinals[depth]) + ". "
				r.ordinals[depth]++
			}
			pad := strings.Repeat("  ", depth)
			r.pendingBullet = pad + lipgloss.NewStyle().Foreground(r.theme.Secondary).Render(bullet)
			r.indent = len(pad) + ansi.StringWidth(bullet)
		} else {
			r.flush()
			r.indent = 0
			if depth := len(r.bullets) - 2; depth >= 0 {
				r.indent = 2*depth + 2
			}
		}

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			r.flush()
			r.ensureBlankLine()
			style := lipgloss.NewStyle().Foreground(r.theme.Secondary)
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				r.write("  " + style.Render(strings.TrimRight(string(seg.Value(r.source)), "\n")) + "\n")
			}
			r.ensureBlankLine()
			return ast.WalkSkipChildren, nil
		}

	case ast.KindThematicBreak:
		if entering {
			r.ensureBlankLine()
			r.write(lipgloss.NewStyle().Foreground(r.theme.Faint).Render(strings.Repeat("─", r.contentWidth())))
			r.write("\n\n")
		}

	case ast.KindText:
		if entering {
			t := node.(*ast.Text)
			r.inline.WriteString(r.styled(string(t.Segment.Value(r.source))))
			if t.SoftLineBreak() || t.HardLineBreak() {
				r.inline.WriteString(" ")
			}
		}

	case ast.KindString:
		if entering {
			r.inline.WriteString(r.styled(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		level := node.(*ast.Emphasis).Level
		delta := 1
		if !entering {
			delta = -1
		}
		if level >= 2 {
			r.bold += delta
		} else {
			r.italic += delta
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					code.Write(t.Segment.Value(r.source))
				}
			}
			r.inline.WriteString(lipgloss.NewStyle().Foreground(r.theme.Accent).Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if !entering {
			dest := string(node.(*ast.Link).Destination)
			r.inline.WriteString(lipgloss.NewStyle().Foreground(r.theme.Faint).Render(" (" + dest + ")"))
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(r.source))
			r.inline.WriteString(lipgloss.NewStyle().Underline(true).Foreground(r.theme.Secondary).Render(url))
			return ast.WalkSkipChildren, nil
		}

	case extast.KindStrikethrough:
		if entering {
			r.strike++
		} else {
			r.strike--
		}

	case ast.KindHTMLBlock, ast.KindRawHTML:
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}
