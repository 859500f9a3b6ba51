package services

import (
	"strings"
)

// sentenceTerminators mark preferred split points, searched within the
// last 20% of each window. The trailing space/newline is kept inside the
// preceding chunk so the next window starts on fresh text.
var sentenceTerminators = []string{". ", ".\n", "! ", "!\n", "? ", "?\n", "\n\n"}

// ChunkText splits text into ordered, whitespace-trimmed chunks of at most
// chunkSize characters, with consecutive chunks overlapping by up to
// chunkOverlap characters. Splits prefer sentence boundaries, then word
// boundaries, then a raw cut. The output is a pure function of its inputs.
func ChunkText(text string, chunkSize, chunkOverlap int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + chunkSize

		// If this is not the final window, pull the cut back to a natural
		// boundary within the last 20% of the window.
		if end < len(text) {
			searchStart := end - chunkSize/5
			if searchStart < start {
				searchStart = start
			}
			window := text[searchStart:end]

			best := -1
			for _, term := range sentenceTerminators {
				if pos := strings.LastIndex(window, term); pos != -1 {
					if candidate := searchStart + pos + len(term); candidate > best {
						best = candidate
					}
				}
			}
			if best == -1 {
				if sp := strings.LastIndexByte(window, ' '); sp != -1 {
					best = searchStart + sp + 1
				}
			}
			if best != -1 {
				end = best
			}
		}

		sliceEnd := end
		if sliceEnd > len(text) {
			sliceEnd = len(text)
		}
		chunk := strings.TrimSpace(text[start:sliceEnd])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		// The +1 floor guarantees forward progress even when the overlap
		// swallows the whole advance.
		next := end - chunkOverlap
		if next < start+1 {
			next = start + 1
		}
		start = next
	}

	return chunks
}
