package telegram

import "strings"

// maxMessageLength is Telegram's hard limit for one message body.
const maxMessageLength = 4096

// splitIntoChunks splits text into pieces not exceeding maxLen runes,
// breaking at word boundaries so words and emoji are never cut. A single
// token longer than maxLen is split by runes as a last resort.
func splitIntoChunks(text string, maxLen int) []string {
	if text == "" {
		return nil
	}
	if len([]rune(text)) <= maxLen {
		return []string{text}
	}

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			currentLen = 0
		}
	}

	for _, part := range strings.Fields(text) {
		partLen := len([]rune(part))
		sep := 0
		if len(current) > 0 {
			sep = 1
		}
		if currentLen+sep+partLen <= maxLen {
			current = append(current, part)
			currentLen += sep + partLen
			continue
		}
		flush()
		if partLen > maxLen {
			r := []rune(part)
			for i := 0; i < len(r); i += maxLen {
				end := i + maxLen
				if end > len(r) {
					end = len(r)
				}
				chunks = append(chunks, string(r[i:end]))
			}
			continue
		}
		current = append(current, part)
		currentLen = partLen
	}
	flush()
	return chunks
}
