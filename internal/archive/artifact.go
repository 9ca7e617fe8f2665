package archive

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"huffpack/internal/bitio"
	"huffpack/internal/checksum"
	"huffpack/internal/huffman"
)

var dataMagic = [4]byte{'H', 'P', 'K', '1'}

const dataVersion uint16 = 1

// dataHeader is the fixed binary header of the data artifact, written with
// encoding/binary in little-endian order and followed immediately by the
// packed bit bytes.
type dataHeader struct {
	Magic    [4]byte
	Version  uint16
	BitCount uint64
	Checksum uint64 // xxHash-64 of the packed bit bytes
}

const dataHeaderSize = 4 + 2 + 8 + 8

// TreeArtifact is the JSON document persisted alongside the data artifact.
// It carries everything decode needs besides the bits themselves: the code
// tree, the file index, and the original folder path for recomputing
// relative paths.
type TreeArtifact struct {
	Generator string         `json:"generator"`
	Created   time.Time      `json:"created"`
	Root      string         `json:"root"`
	Index     map[string]int `json:"index"`
	Tree      *huffman.Node  `json:"tree"`
}

// DataInfo summarizes a data artifact header for inspection.
type DataInfo struct {
	Version    uint16
	BitCount   uint64
	PackedSize int64
}

// SaveData packs the logical bit string and writes the data artifact,
// creating parent directories as needed.
func SaveData(path string, bits string) error {
	packed, err := bitio.Pack(bits)
	if err != nil {
		return fmt.Errorf("failed to pack bits: %w", err)
	}

	header := dataHeader{
		Magic:    dataMagic,
		Version:  dataVersion,
		BitCount: uint64(len(bits)),
		Checksum: checksum.Sum(packed),
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	buf.Write(packed)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write data artifact: %w", err)
	}
	return nil
}

// LoadData reads a data artifact and returns the logical bit string. Any
// header or checksum mismatch is ErrArtifactFormat.
func LoadData(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read data artifact: %w", err)
	}

	header, packed, err := parseData(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrArtifactFormat, path, err)
	}

	bits, err := bitio.Unpack(packed, int(header.BitCount))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrArtifactFormat, path, err)
	}
	return bits, nil
}

// StatData reads and verifies only the header of a data artifact.
func StatData(path string) (*DataInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data artifact: %w", err)
	}

	header, packed, err := parseData(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactFormat, path, err)
	}

	return &DataInfo{
		Version:    header.Version,
		BitCount:   header.BitCount,
		PackedSize: int64(len(packed)),
	}, nil
}

func parseData(raw []byte) (*dataHeader, []byte, error) {
	if len(raw) < dataHeaderSize {
		return nil, nil, fmt.Errorf("artifact is %d bytes, smaller than the header", len(raw))
	}

	var header dataHeader
	if err := binary.Read(bytes.NewReader(raw[:dataHeaderSize]), binary.LittleEndian, &header); err != nil {
		return nil, nil, err
	}
	if header.Magic != dataMagic {
		return nil, nil, fmt.Errorf("bad magic %q", header.Magic)
	}
	if header.Version != dataVersion {
		return nil, nil, fmt.Errorf("unsupported version %d", header.Version)
	}

	packed := raw[dataHeaderSize:]
	if checksum.Sum(packed) != header.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch")
	}
	return &header, packed, nil
}

// SaveTree writes the tree artifact as indented JSON, creating parent
// directories as needed.
func SaveTree(path string, artifact *TreeArtifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tree artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tree artifact: %w", err)
	}
	return nil
}

// LoadTree reads a tree artifact back and validates its structure. Decode
// correctness depends entirely on an exact tree reconstruction, so a missing
// or misshapen tree is ErrArtifactFormat.
func LoadTree(path string) (*TreeArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree artifact: %w", err)
	}

	var artifact TreeArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactFormat, path, err)
	}

	if !artifact.Tree.Valid() {
		return nil, fmt.Errorf("%w: %s: missing or misshapen code tree", ErrArtifactFormat, path)
	}
	if artifact.Index == nil {
		return nil, fmt.Errorf("%w: %s: missing file index", ErrArtifactFormat, path)
	}

	return &artifact, nil
}
