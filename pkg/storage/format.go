package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "GODB"
	// Current version
	FormatVersion = 1
	// File extension of a database file
	FileExtension = ".godb"

	// FlagUncompressed marks a body stored without lz4 compression
	FlagUncompressed uint8 = 1 << 0
)

// FileHeader represents the header of a database file
type FileHeader struct {
	Magic    [4]byte // "GODB"
	Version  uint8   // Format version
	Flags    uint8   // FlagUncompressed or 0
	Reserved [2]byte // Reserved for future use
	RawSize  uint32  // Uncompressed body size
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8, rawSize int) error {
	header := FileHeader{
		Magic:   [4]byte{'G', 'O', 'D', 'B'},
		Version: FormatVersion,
		Flags:   flags,
		RawSize: uint32(rawSize),
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// StorageData is the body of a database file
type StorageData struct {
	Documents map[string]map[string]interface{} `msgpack:"documents"`
	Sequences map[string]uint64                 `msgpack:"sequences"`
	LastSeq   uint64                            `msgpack:"last_seq"`
	Indexes   []string                          `msgpack:"indexes,omitempty"`
}

// NewStorageData creates a new empty storage data structure
func NewStorageData() *StorageData {
	return &StorageData{
		Documents: make(map[string]map[string]interface{}),
		Sequences: make(map[string]uint64),
	}
}
