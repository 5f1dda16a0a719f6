package service

import (
	"strings"
)

// DefaultMaxChunkSize bounds accumulated chunk length in bytes.
const DefaultMaxChunkSize = 500

// SplitDocument splits document text into chunks for embedding. Paragraphs
// are delimited by blank lines and greedily packed into chunks: a paragraph
// joins the current chunk only while the combined length stays strictly
// under the limit, otherwise it starts a new chunk. A single paragraph
// longer than the limit becomes its own oversized chunk; paragraphs are
// never split internally.
func SplitDocument(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	// NUL bytes upset the text column encoding
	text = strings.ReplaceAll(text, "\x00", "")

	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			paragraphs = append(paragraphs, para)
		}
	}

	var chunks []string
	current := ""
	for _, para := range paragraphs {
		if len(current)+len(para) < maxChunkSize {
			current += para + "\n\n"
		} else {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
			}
			current = para + "\n\n"
		}
	}
	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}
