package chunker

import (
	"errors"
	"strings"
)

// ErrInvalidOverlap is returned when overlap >= chunk size, which would stall
// the sliding window.
var ErrInvalidOverlap = errors.New("chunker: overlap must be smaller than chunk size")

// Boundary search windows. Tunable, kept at these values for compatibility
// with existing chunk layouts.
const (
	sentenceSearchWindow = 200
	spaceSearchWindow    = 100
)

// Splitter splits document text into overlapping, boundary-aware segments.
// Chunks are emitted in document order; the emission index is the chunk index.
type Splitter struct {
	chunkSize          int
	overlap            int
	preserveParagraphs bool
}

func NewSplitter(chunkSize, overlap int, preserveParagraphs bool) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, errors.New("chunker: chunk size must be positive")
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, ErrInvalidOverlap
	}
	return &Splitter{
		chunkSize:          chunkSize,
		overlap:            overlap,
		preserveParagraphs: preserveParagraphs,
	}, nil
}

// Split chunks text into segments of at most chunkSize characters (paragraph
// accumulation may exceed it by one overlap seed). All chunks are trimmed of
// surrounding whitespace.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{strings.TrimSpace(text)}
	}

	if s.preserveParagraphs {
		return s.splitByParagraphs(text)
	}
	return s.splitWindow(text)
}

func (s *Splitter) splitByParagraphs(text string) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	current := ""

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// +2 accounts for the paragraph separator
		if runeLen(current)+runeLen(para)+2 > s.chunkSize {
			if current != "" {
				flushed := strings.TrimSpace(current)
				chunks = append(chunks, flushed)
				current = s.overlapTail(flushed)
			}

			if runeLen(para) > s.chunkSize {
				// Oversized paragraph: window-split it, flush all but the
				// last piece, let the last piece seed the next buffer.
				pieces := s.splitWindow(para)
				if len(pieces) > 0 {
					chunks = append(chunks, pieces[:len(pieces)-1]...)
					current = pieces[len(pieces)-1]
				}
			} else {
				current = joinParagraph(current, para)
			}
		} else {
			current = joinParagraph(current, para)
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}

// splitWindow scans a chunkSize window from the current offset and prefers to
// cut at, in order: the last sentence terminator within the final
// sentenceSearchWindow characters, the last newline within the same range, or
// the last space within the final spaceSearchWindow characters. Failing all
// three it cuts at exactly chunkSize. The next window starts overlap
// characters before the cut.
func (s *Splitter) splitWindow(text string) []string {
	runes := []rune(text)
	total := len(runes)

	var chunks []string
	start := 0

	for start < total {
		end := start + s.chunkSize

		if end >= total {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		window := runes[start:end]

		lastTerminator := maxInt(
			lastIndexSeq(window, ". "),
			lastIndexSeq(window, "! "),
			lastIndexSeq(window, "? "),
		)

		if lastTerminator > s.chunkSize-sentenceSearchWindow {
			end = start + lastTerminator + 1
		} else if lastNewline := lastIndexRune(window, '\n'); lastNewline > s.chunkSize-sentenceSearchWindow {
			end = start + lastNewline
		} else if lastSpace := lastIndexRune(window, ' '); lastSpace > s.chunkSize-spaceSearchWindow {
			end = start + lastSpace
		}

		if end <= start {
			// boundary landed on the window's first rune, fall back to a hard cut
			end = start + s.chunkSize
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, piece)
		}

		next := end - s.overlap
		if next <= start {
			// a boundary cut inside the overlap region must not stall the scan
			next = end
		}
		start = next
	}

	return chunks
}

// overlapTail returns the last overlap characters of chunk, or "" when the
// chunk is no longer than the overlap.
func (s *Splitter) overlapTail(chunk string) string {
	runes := []rune(chunk)
	if len(runes) <= s.overlap {
		return ""
	}
	return string(runes[len(runes)-s.overlap:])
}

func joinParagraph(current, para string) string {
	if current == "" {
		return para
	}
	return current + "\n\n" + para
}

func runeLen(s string) int {
	return len([]rune(s))
}

// lastIndexSeq returns the rune index of the last occurrence of seq in window,
// or -1 when absent.
func lastIndexSeq(window []rune, seq string) int {
	target := []rune(seq)
	for i := len(window) - len(target); i >= 0; i-- {
		match := true
		for j, r := range target {
			if window[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func lastIndexRune(window []rune, r rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == r {
			return i
		}
	}
	return -1
}

func maxInt(values ...int) int {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
