package archive

import (
	"fmt"
	"os"
	"unicode/utf8"

	"huffpack/internal/progress"
	"huffpack/internal/walker"
)

// terminator ends each file's record inside the concatenated payload. File
// content containing this symbol cannot be framed, so such files are skipped
// at pack time.
const terminator rune = 0

// decodeText converts raw file bytes to symbols. Lossy mode drops invalid
// UTF-8 bytes (the historical behavior of this format); strict mode rejects
// the file instead.
func decodeText(data []byte, strict bool) ([]rune, error) {
	out := make([]rune, 0, len(data))
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			if strict {
				return nil, fmt.Errorf("invalid UTF-8 sequence at offset %d", i)
			}
			i++
			continue
		}
		out = append(out, r)
		i += size
	}
	return out, nil
}

// buildPayload concatenates every file's decoded content, each followed by
// one terminator, and records each file's starting symbol offset. Files that
// cannot be read, fail strict decoding, or contain the terminator are skipped
// with a warning; those warnings are the caller's to surface.
func buildPayload(files []walker.FileInfo, strict bool, bar *progress.Bar) ([]rune, map[string]int, []string) {
	payload := make([]rune, 0)
	index := make(map[string]int)
	warnings := make([]string, 0)

	for _, file := range files {
		if bar != nil {
			bar.Increment()
		}

		data, err := os.ReadFile(file.Path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", file.Path, err))
			continue
		}

		content, err := decodeText(data, strict)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", file.Path, err))
			continue
		}

		if containsTerminator(content) {
			warnings = append(warnings, fmt.Sprintf("%s: content contains the record terminator (NUL), skipped", file.Path))
			continue
		}

		index[file.Path] = len(payload)
		payload = append(payload, content...)
		payload = append(payload, terminator)
	}

	return payload, index, warnings
}

func containsTerminator(content []rune) bool {
	for _, r := range content {
		if r == terminator {
			return true
		}
	}
	return false
}

// sliceRecord extracts one file's content from the decoded payload: from its
// start offset up to (not including) the first terminator, or to the end of
// the payload when no terminator follows.
func sliceRecord(payload []rune, offset int) []rune {
	for i := offset; i < len(payload); i++ {
		if payload[i] == terminator {
			return payload[offset:i]
		}
	}
	return payload[offset:]
}
