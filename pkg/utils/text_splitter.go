package utils

import "unicode"

// SplitText cuts text into chunks of at most chunkSize runes, each starting
// overlap runes before the previous one ended. A cut is moved back to the
// nearest whitespace in the last tenth of the window so words stay whole.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if chunkSize <= 0 || len(runes) <= chunkSize {
		return []string{text}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	for start := 0; start < len(runes); {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		for cut := end; cut > end-chunkSize/10 && cut > start+overlap; cut-- {
			if unicode.IsSpace(runes[cut]) {
				end = cut
				break
			}
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end - overlap
	}
	return chunks
}
