package parser

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ParseResult carries the extracted text plus the counts stored on the
// document record.
type ParseResult struct {
	Content        string
	CharacterCount int
	WordCount      int
}

// TextParser extracts plain text from .txt and .md files.
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse reads the file at path and returns its text content with character
// and word counts. Invalid UTF-8 sequences are replaced rather than rejected,
// uploads come from arbitrary editors.
func (p *TextParser) Parse(path string) (*ParseResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	content := string(raw)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, string(utf8.RuneError))
	}

	return &ParseResult{
		Content:        content,
		CharacterCount: utf8.RuneCountInString(content),
		WordCount:      len(strings.Fields(content)),
	}, nil
}
