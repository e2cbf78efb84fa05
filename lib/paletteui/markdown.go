// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func markdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
	})
	return markdownParserInstance
}

// renderMarkdown renders a command description as styled terminal text
// wrapped to width. Soft line breaks become spaces so hard-wrapped
// source text reflows.
func renderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	// The preview is always drawn inside the TUI, so force a color
	// profile instead of detecting one from stderr.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       max(width, 10),
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks a goldmark AST, collecting inline content per
// block and word-wrapping it when the block closes.
type markdownRenderer struct {
	source      []byte
	theme       Theme
	width       int
	lipRenderer *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	// prefix is prepended to every line inside list items.
	prefix        string
	pendingBullet string

	bold          int
	italic        int
	strikethrough int

	lists   []listState
	indents []int
}

type listState struct {
	ordered bool
	counter int
}

func (renderer *markdownRenderer) style() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

func (renderer *markdownRenderer) styledText(content string) string {
	style := renderer.style().Foreground(renderer.theme.NormalText)
	if renderer.bold > 0 {
		style = style.Bold(true)
	}
	if renderer.italic > 0 {
		style = style.Italic(true)
	}
	if renderer.strikethrough > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// writeBlock wraps content, prefixes each line, and ends the block.
func (renderer *markdownRenderer) writeBlock(content string) {
	if content == "" {
		return
	}
	wrapped := ansi.Wrap(content, max(renderer.width-ansi.StringWidth(renderer.prefix), 10), " ,.;-+|")
	for index, line := range strings.Split(wrapped, "\n") {
		if index == 0 && renderer.pendingBullet != "" {
			renderer.output.WriteString(renderer.pendingBullet)
			renderer.pendingBullet = ""
		} else {
			renderer.output.WriteString(renderer.prefix)
		}
		renderer.output.WriteString(line)
		renderer.output.WriteString("\n")
	}
}

func (renderer *markdownRenderer) flush() {
	content := renderer.inline.String()
	renderer.inline.Reset()
	renderer.writeBlock(content)
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			renderer.flush()
		}

	case ast.KindHeading:
		if entering {
			renderer.inline.Reset()
		} else {
			content := ansi.Strip(renderer.inline.String())
			renderer.inline.Reset()
			renderer.writeBlock(renderer.style().Bold(true).Foreground(renderer.theme.HeaderForeground).Render(content))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			renderer.renderCode(renderer.lines(block), string(block.Language(renderer.source)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			renderer.renderCode(renderer.lines(node), "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			renderer.lists = append(renderer.lists, listState{ordered: list.IsOrdered(), counter: list.Start})
		} else if len(renderer.lists) > 0 {
			renderer.lists = renderer.lists[:len(renderer.lists)-1]
		}

	case ast.KindListItem:
		if entering {
			renderer.enterListItem()
		} else if len(renderer.indents) > 0 {
			indent := renderer.indents[len(renderer.indents)-1]
			renderer.indents = renderer.indents[:len(renderer.indents)-1]
			renderer.prefix = renderer.prefix[:len(renderer.prefix)-indent]
		}

	case ast.KindThematicBreak:
		if entering {
			rule := renderer.style().Foreground(renderer.theme.BorderColor).Render(strings.Repeat("─", renderer.width))
			renderer.output.WriteString(rule + "\n")
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			renderer.inline.WriteString(renderer.styledText(string(textNode.Segment.Value(renderer.source))))
			if textNode.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		counter := &renderer.italic
		if node.(*ast.Emphasis).Level >= 2 {
			counter = &renderer.bold
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case extast.KindStrikethrough:
		if entering {
			renderer.strikethrough++
		} else {
			renderer.strikethrough--
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			renderer.inline.WriteString(renderer.style().Foreground(renderer.theme.LabelForeground).Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if !entering {
			destination := string(node.(*ast.Link).Destination)
			if destination != "" {
				renderer.inline.WriteString(" " + renderer.style().Foreground(renderer.theme.FaintText).Render("("+destination+")"))
			}
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(renderer.source))
			renderer.inline.WriteString(renderer.style().Foreground(renderer.theme.LabelForeground).Underline(true).Render(url))
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (renderer *markdownRenderer) enterListItem() {
	bullet := "• "
	if len(renderer.lists) > 0 {
		top := &renderer.lists[len(renderer.lists)-1]
		if top.ordered {
			bullet = fmt.Sprintf("%d. ", top.counter)
			top.counter++
		}
	}
	renderer.pendingBullet = renderer.prefix + renderer.style().Foreground(renderer.theme.FaintText).Render(bullet)
	// Continuation lines align with the text after the bullet.
	indent := ansi.StringWidth(bullet)
	renderer.indents = append(renderer.indents, indent)
	renderer.prefix += strings.Repeat(" ", indent)
}

func (renderer *markdownRenderer) lines(node ast.Node) string {
	var code strings.Builder
	segments := node.Lines()
	for index := 0; index < segments.Len(); index++ {
		segment := segments.At(index)
		code.Write(segment.Value(renderer.source))
	}
	return code.String()
}

// renderCode syntax-highlights code with chroma when the language is
// known, and falls back to faint text otherwise.
func (renderer *markdownRenderer) renderCode(code, language string) {
	highlighted := ""
	if language != "" {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err == nil {
			highlighted = buffer.String()
		}
	}
	if highlighted == "" {
		highlighted = renderer.style().Foreground(renderer.theme.FaintText).Render(strings.TrimRight(code, "\n"))
	}
	for _, line := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
		renderer.output.WriteString(renderer.prefix + ansi.Truncate(line, renderer.width, "…") + "\n")
	}
}
