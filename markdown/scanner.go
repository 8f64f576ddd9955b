// Package markdown finds pedalboard code blocks in markdown documents so a
// board can live in a README next to its rendered sketch.
package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// LangScenario fences a YAML or JSON scenario.
	LangScenario = "pedalboard"
	// LangSketch fences the rendered board sketch.
	LangSketch = "pedalboard-sketch"
)

// Block is one fenced code block. Lines are 0-based and point at the fences.
type Block struct {
	Lang        string
	Content     string
	StartLine   int
	EndLine     int
	Indent      string
	ContentHash string
}

// Scanner finds and rewrites pedalboard blocks in markdown content.
type Scanner struct {
	content string
	lines   []string
}

// NewScanner creates a new markdown scanner
func NewScanner(content string) *Scanner {
	return &Scanner{
		content: content,
		lines:   strings.Split(content, "\n"),
	}
}

// UpdateContent updates the scanner's internal content after a successful replacement
func (s *Scanner) UpdateContent(newContent string) {
	s.content = newContent
	s.lines = strings.Split(newContent, "\n")
}

// Content returns the current markdown content.
func (s *Scanner) Content() string {
	return s.content
}

func hashContent(content string) string {
	return strconv.FormatUint(xxhash.Sum64String(content), 16)
}

// FindBlocks returns every block fenced with one of langs, in document order.
// Content lines have the fence indentation removed. An unterminated block is
// ignored.
func (s *Scanner) FindBlocks(langs ...string) []Block {
	var blocks []Block
	var current *Block
	var body []string

	for i, line := range s.lines {
		trimmed := strings.TrimLeft(line, " \t")
		if current == nil {
			if !strings.HasPrefix(trimmed, "```") {
				continue
			}
			lang := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")))
			for _, want := range langs {
				if lang == want {
					current = &Block{Lang: lang, StartLine: i, Indent: line[:len(line)-len(trimmed)]}
					body = nil
					break
				}
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			current.EndLine = i
			current.Content = strings.Join(body, "\n")
			current.ContentHash = hashContent(current.Content)
			blocks = append(blocks, *current)
			current = nil
			continue
		}
		body = append(body, strings.TrimPrefix(line, current.Indent))
	}
	return blocks
}

// First returns the first block fenced with lang.
func (s *Scanner) First(lang string) (Block, bool) {
	blocks := s.FindBlocks(lang)
	if len(blocks) == 0 {
		return Block{}, false
	}
	return blocks[0], true
}

// ValidateBlockUnchanged checks if a block's content matches its original hash
func (s *Scanner) ValidateBlockUnchanged(block Block) error {
	if err := s.checkBounds(block); err != nil {
		return err
	}
	body := make([]string, 0, block.EndLine-block.StartLine-1)
	for i := block.StartLine + 1; i < block.EndLine; i++ {
		body = append(body, strings.TrimPrefix(s.lines[i], block.Indent))
	}
	if hashContent(strings.Join(body, "\n")) != block.ContentHash {
		return fmt.Errorf("block content has been modified externally (hash mismatch)")
	}
	return nil
}

func (s *Scanner) checkBounds(block Block) error {
	if block.StartLine < 0 || block.EndLine >= len(s.lines) || block.StartLine >= block.EndLine {
		return fmt.Errorf("invalid block boundaries: start=%d, end=%d, total lines=%d",
			block.StartLine, block.EndLine, len(s.lines))
	}
	return nil
}

// ReplaceBlock replaces a block's content, keeping its fences and indentation,
// and returns the new markdown. The scanner itself is not updated.
func (s *Scanner) ReplaceBlock(block Block, newContent string) (string, error) {
	if err := s.checkBounds(block); err != nil {
		return "", err
	}

	trimmedStart := strings.TrimLeft(s.lines[block.StartLine], " \t")
	if !strings.HasPrefix(strings.ToLower(trimmedStart), "```"+block.Lang) {
		return "", fmt.Errorf("block start marker has changed at line %d: expected '```%s', found '%s'",
			block.StartLine+1, block.Lang, trimmedStart)
	}
	trimmedEnd := strings.TrimLeft(s.lines[block.EndLine], " \t")
	if !strings.HasPrefix(trimmedEnd, "```") {
		return "", fmt.Errorf("block end marker has changed at line %d: expected '```', found '%s'",
			block.EndLine+1, trimmedEnd)
	}

	contentLines := strings.Split(strings.TrimRight(newContent, "\n"), "\n")
	out := make([]string, 0, len(s.lines)+len(contentLines))
	out = append(out, s.lines[:block.StartLine+1]...)
	for _, line := range contentLines {
		out = append(out, block.Indent+line)
	}
	out = append(out, s.lines[block.EndLine:]...)
	return strings.Join(out, "\n"), nil
}

// FormatBlockInfo returns a one line description of a block for listings.
func FormatBlockInfo(block Block, index int) string {
	preview := ""
	for _, line := range strings.Split(block.Content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			preview = trimmed
			break
		}
	}
	if len(preview) > 50 {
		preview = preview[:47] + "..."
	}
	return fmt.Sprintf("%d. %s (lines %d-%d): %s", index+1, block.Lang, block.StartLine+1, block.EndLine+1, preview)
}
