// Package archive packs a directory tree into a Huffman-coded artifact pair
// and restores it. A pack concatenates every file's text content into one
// payload with NUL record terminators and a path-to-offset index, Huffman
// codes the payload, and persists the bits and the code tree as two coupled
// artifacts. Unpack inverts the whole pipeline.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"huffpack/internal/config"
	"huffpack/internal/huffman"
	"huffpack/internal/progress"
	"huffpack/internal/walker"
)

const generator = "huffpack"

type PackResult struct {
	Files          int
	Skipped        []string
	RawBytes       int64
	PayloadSymbols int
	EncodedBits    int
}

// EncodedBytes is the size of the packed bit stream, excluding the header.
func (r *PackResult) EncodedBytes() int64 {
	return int64((r.EncodedBits + 7) / 8)
}

type UnpackResult struct {
	Files int
	Root  string
}

// Pack compresses inputDir into a data artifact and a tree artifact. On any
// failure neither artifact survives. bar may be nil.
func Pack(inputDir, dataPath, treePath string, cfg *config.Config, bar *progress.Bar) (*PackResult, error) {
	absDir, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	walkResult, err := walker.Walk(absDir, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to read input folder %s: %w", absDir, err)
	}
	if bar != nil {
		bar.SetTotal(int64(len(walkResult.Files)))
	}

	payload, index, warnings := buildPayload(walkResult.Files, cfg.Strict, bar)
	for _, walkErr := range walkResult.Errors {
		warnings = append(warnings, walkErr.Error())
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: folder %s", ErrEmptyInput, absDir)
	}

	root, err := huffman.Build(huffman.Frequencies(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build code tree: %w", err)
	}
	bits, err := huffman.Encode(payload, huffman.Codes(root))
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	if err := SaveData(dataPath, bits); err != nil {
		return nil, err
	}
	artifact := &TreeArtifact{
		Generator: generator,
		Created:   time.Now().UTC(),
		Root:      absDir,
		Index:     index,
		Tree:      root,
	}
	if err := SaveTree(treePath, artifact); err != nil {
		// The pair is one logical unit; don't leave half of it behind.
		os.Remove(dataPath)
		return nil, err
	}

	var rawBytes int64
	for _, file := range walkResult.Files {
		rawBytes += file.Size
	}

	return &PackResult{
		Files:          len(index),
		Skipped:        warnings,
		RawBytes:       rawBytes,
		PayloadSymbols: len(payload),
		EncodedBits:    len(bits),
	}, nil
}

type restoredFile struct {
	path    string
	content string
}

// Unpack decodes the artifact pair and rewrites every indexed file under
// outputDir. The full decode and every path computation happen before the
// first file is written, so a malformed artifact never leaves partial
// output behind.
func Unpack(dataPath, outputDir, treePath string) (*UnpackResult, error) {
	artifact, err := LoadTree(treePath)
	if err != nil {
		return nil, err
	}
	bits, err := LoadData(dataPath)
	if err != nil {
		return nil, err
	}

	payload, err := huffman.Decode(bits, artifact.Tree)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", dataPath, err)
	}

	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	paths := make([]string, 0, len(artifact.Index))
	for path := range artifact.Index {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	restored := make([]restoredFile, 0, len(paths))
	for _, path := range paths {
		offset := artifact.Index[path]
		if offset < 0 || offset > len(payload) {
			return nil, fmt.Errorf("%w: %s: offset %d outside payload of %d symbols", ErrArtifactFormat, path, offset, len(payload))
		}

		relPath, err := filepath.Rel(artifact.Root, path)
		if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: index entry %s escapes root %s", ErrArtifactFormat, path, artifact.Root)
		}

		restored = append(restored, restoredFile{
			path:    filepath.Join(absOut, relPath),
			content: string(sliceRecord(payload, offset)),
		})
	}

	for _, file := range restored {
		if err := os.MkdirAll(filepath.Dir(file.path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(file.path, []byte(file.content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", file.path, err)
		}
	}

	return &UnpackResult{
		Files: len(restored),
		Root:  absOut,
	}, nil
}

// FormatSize renders a byte count for CLI summaries.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
