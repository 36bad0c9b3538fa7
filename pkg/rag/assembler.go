package rag

import (
	"fmt"
	"strings"

	"ai-docquery-be/pkg/searchengine"
)

// DefaultMaxContextChars caps the assembled context passed to the model.
const DefaultMaxContextChars = 6000

// AssembleContext formats search results into the context block embedded in
// the system prompt. Results are consumed in given order; assembly stops at
// the first block that would push the total past maxChars, later smaller
// blocks are not pulled forward to keep source numbering aligned with rank.
func AssembleContext(results []searchengine.Result, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}

	var blocks []string
	total := 0

	for i, result := range results {
		block := fmt.Sprintf("[Source %d: %s]\n%s\n", i+1, result.DocumentName, result.Text)

		// blocks already end in a newline, a single joiner char leaves one
		// blank line between them
		cost := len(block)
		if len(blocks) > 0 {
			cost++
		}
		if total+cost > maxChars {
			break
		}

		blocks = append(blocks, block)
		total += cost
	}

	return strings.Join(blocks, "\n")
}
