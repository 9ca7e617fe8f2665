package archive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"huffpack/internal/config"
)

func writeTestFolder(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		fullPath := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
	return dir
}

func artifactPaths(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "out", "data.hpk"), filepath.Join(dir, "out", "tree.json")
}

func TestPackUnpack_FolderRoundTrip(t *testing.T) {
	files := map[string]string{
		"a.txt":     "hello",
		"sub/b.txt": "world",
	}
	inputDir := writeTestFolder(t, files)
	dataPath, treePath := artifactPaths(t)

	result, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if result.Files != len(files) {
		t.Errorf("Expected %d packed files, got %d", len(files), result.Files)
	}
	if len(result.Skipped) != 0 {
		t.Errorf("Expected no skipped files, got %v", result.Skipped)
	}

	outputDir := t.TempDir()
	unpacked, err := Unpack(dataPath, outputDir, treePath)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if unpacked.Files != len(files) {
		t.Errorf("Expected %d restored files, got %d", len(files), unpacked.Files)
	}

	for name, content := range files {
		got, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			t.Fatalf("Failed to read restored file %s: %v", name, err)
		}
		if string(got) != content {
			t.Errorf("File %s: expected %q, got %q", name, content, string(got))
		}
	}
}

func TestPackUnpack_UnicodeContent(t *testing.T) {
	files := map[string]string{
		"greek.txt": "αβγδε ζηθικ",
		"cjk.txt":   "日本語のテキストです",
	}
	inputDir := writeTestFolder(t, files)
	dataPath, treePath := artifactPaths(t)

	if _, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	outputDir := t.TempDir()
	if _, err := Unpack(dataPath, outputDir, treePath); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}

	for name, content := range files {
		got, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			t.Fatalf("Failed to read restored file %s: %v", name, err)
		}
		if string(got) != content {
			t.Errorf("File %s: expected %q, got %q", name, content, string(got))
		}
	}
}

func TestPackUnpack_SingleSymbolPayload(t *testing.T) {
	// One file of one repeated character plus the terminator still has two
	// distinct symbols; a truly degenerate payload needs the codec tests.
	// Here the interesting case is a tiny two-symbol alphabet end to end.
	inputDir := writeTestFolder(t, map[string]string{"a.txt": "aaaaaaaa"})
	dataPath, treePath := artifactPaths(t)

	if _, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	outputDir := t.TempDir()
	if _, err := Unpack(dataPath, outputDir, treePath); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outputDir, "a.txt"))
	if err != nil {
		t.Fatalf("Failed to read restored file: %v", err)
	}
	if string(got) != "aaaaaaaa" {
		t.Errorf("Expected %q, got %q", "aaaaaaaa", string(got))
	}
}

func TestPackUnpack_EmptyFileDegeneratesToOneSymbol(t *testing.T) {
	// An empty file leaves only the terminator in the payload, so the code
	// tree is a lone leaf and the single-bit convention carries the round
	// trip end to end.
	inputDir := writeTestFolder(t, map[string]string{"empty.txt": ""})
	dataPath, treePath := artifactPaths(t)

	if _, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	outputDir := t.TempDir()
	result, err := Unpack(dataPath, outputDir, treePath)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if result.Files != 1 {
		t.Fatalf("Expected 1 restored file, got %d", result.Files)
	}

	got, err := os.ReadFile(filepath.Join(outputDir, "empty.txt"))
	if err != nil {
		t.Fatalf("Failed to read restored file: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty file, got %q", string(got))
	}
}

func TestPack_EmptyFolder(t *testing.T) {
	inputDir := t.TempDir()
	dataPath, treePath := artifactPaths(t)

	_, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Expected ErrEmptyInput for empty folder, got %v", err)
	}

	if _, err := os.Stat(dataPath); !os.IsNotExist(err) {
		t.Error("No data artifact should be written for an empty folder")
	}
	if _, err := os.Stat(treePath); !os.IsNotExist(err) {
		t.Error("No tree artifact should be written for an empty folder")
	}
}

func TestPack_NonExistentFolder(t *testing.T) {
	dataPath, treePath := artifactPaths(t)

	_, err := Pack("/nonexistent/folder", dataPath, treePath, config.DefaultConfig(), nil)
	if err == nil {
		t.Error("Pack should fail for a nonexistent folder")
	}
}

func TestPack_TerminatorCollisionSkipsFile(t *testing.T) {
	inputDir := writeTestFolder(t, map[string]string{
		"clean.txt":  "safe content",
		"binary.dat": "has a NUL \x00 inside",
	})
	dataPath, treePath := artifactPaths(t)

	result, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	if result.Files != 1 {
		t.Errorf("Expected 1 packed file, got %d", result.Files)
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0], "binary.dat") {
		t.Errorf("Expected a skip warning for binary.dat, got %v", result.Skipped)
	}

	outputDir := t.TempDir()
	if _, err := Unpack(dataPath, outputDir, treePath); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "binary.dat")); !os.IsNotExist(err) {
		t.Error("Skipped file should not reappear on unpack")
	}
}

func TestPack_LossyDropsInvalidUTF8(t *testing.T) {
	inputDir := t.TempDir()
	content := append([]byte("ok"), 0xFF, 0xFE)
	content = append(content, []byte("end")...)
	if err := os.WriteFile(filepath.Join(inputDir, "mixed.txt"), content, 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	dataPath, treePath := artifactPaths(t)

	result, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if result.Files != 1 {
		t.Fatalf("Expected the file to be packed lossily, got %d files (skipped: %v)", result.Files, result.Skipped)
	}

	outputDir := t.TempDir()
	if _, err := Unpack(dataPath, outputDir, treePath); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outputDir, "mixed.txt"))
	if err != nil {
		t.Fatalf("Failed to read restored file: %v", err)
	}
	if string(got) != "okend" {
		t.Errorf("Expected invalid bytes dropped (%q), got %q", "okend", string(got))
	}
}

func TestPack_StrictSkipsInvalidUTF8(t *testing.T) {
	inputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inputDir, "good.txt"), []byte("fine"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(inputDir, "bad.txt"), []byte{0xFF, 0xFE}, 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	dataPath, treePath := artifactPaths(t)

	cfg := config.DefaultConfig()
	cfg.Strict = true

	result, err := Pack(inputDir, dataPath, treePath, cfg, nil)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if result.Files != 1 {
		t.Errorf("Expected 1 packed file under strict mode, got %d", result.Files)
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0], "bad.txt") {
		t.Errorf("Expected a skip warning for bad.txt, got %v", result.Skipped)
	}
}

func TestPack_Deterministic(t *testing.T) {
	files := map[string]string{
		"a.txt":     "some repeated content content content",
		"sub/b.txt": "other data",
	}

	inputDir := writeTestFolder(t, files)
	data1, tree1 := artifactPaths(t)
	data2, tree2 := artifactPaths(t)

	if _, err := Pack(inputDir, data1, tree1, config.DefaultConfig(), nil); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if _, err := Pack(inputDir, data2, tree2, config.DefaultConfig(), nil); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	bits1, err := LoadData(data1)
	if err != nil {
		t.Fatalf("LoadData failed: %v", err)
	}
	bits2, err := LoadData(data2)
	if err != nil {
		t.Fatalf("LoadData failed: %v", err)
	}
	if bits1 != bits2 {
		t.Error("Packing the same folder twice should produce identical encoded output")
	}
}

func TestPack_ExcludePatterns(t *testing.T) {
	inputDir := writeTestFolder(t, map[string]string{
		"keep.txt":  "kept",
		"skip.log":  "logged",
		".git/HEAD": "ref: refs/heads/main",
	})
	dataPath, treePath := artifactPaths(t)

	result, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if result.Files != 1 {
		t.Errorf("Expected only keep.txt to be packed, got %d files", result.Files)
	}
}

func TestUnpack_MissingArtifacts(t *testing.T) {
	outputDir := t.TempDir()

	if _, err := Unpack("/nonexistent/data.hpk", outputDir, "/nonexistent/tree.json"); err == nil {
		t.Error("Unpack should fail when artifacts are missing")
	}
}

func TestUnpack_OffsetOutsidePayload(t *testing.T) {
	inputDir := writeTestFolder(t, map[string]string{"a.txt": "hello"})
	dataPath, treePath := artifactPaths(t)

	if _, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	artifact, err := LoadTree(treePath)
	if err != nil {
		t.Fatalf("LoadTree failed: %v", err)
	}
	for path := range artifact.Index {
		artifact.Index[path] = 1 << 30
	}
	if err := SaveTree(treePath, artifact); err != nil {
		t.Fatalf("SaveTree failed: %v", err)
	}

	_, err = Unpack(dataPath, t.TempDir(), treePath)
	if !errors.Is(err, ErrArtifactFormat) {
		t.Errorf("Expected ErrArtifactFormat for out-of-range offset, got %v", err)
	}
}

func TestUnpack_IndexEntryEscapingRoot(t *testing.T) {
	inputDir := writeTestFolder(t, map[string]string{"a.txt": "hello"})
	dataPath, treePath := artifactPaths(t)

	if _, err := Pack(inputDir, dataPath, treePath, config.DefaultConfig(), nil); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	artifact, err := LoadTree(treePath)
	if err != nil {
		t.Fatalf("LoadTree failed: %v", err)
	}
	artifact.Index[filepath.Join(artifact.Root, "..", "evil.txt")] = 0
	if err := SaveTree(treePath, artifact); err != nil {
		t.Fatalf("SaveTree failed: %v", err)
	}

	outputDir := t.TempDir()
	_, err = Unpack(dataPath, outputDir, treePath)
	if !errors.Is(err, ErrArtifactFormat) {
		t.Errorf("Expected ErrArtifactFormat for index entry escaping root, got %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(outputDir, "a.txt")); !os.IsNotExist(statErr) {
		t.Error("No file should be written when validation fails")
	}
}
