package storage

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_WriteAndRead(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHeader(&buf, FlagUncompressed, 1234)
	require.NoError(t, err)

	// 4 bytes magic + version + flags + 2 reserved + 4 bytes raw size
	assert.Len(t, buf.Bytes(), 12)

	header, err := ReadHeader(&buf)
	require.NoError(t, err)

	assert.Equal(t, MagicBytes, string(header.Magic[:]))
	assert.EqualValues(t, FormatVersion, header.Version)
	assert.Equal(t, FlagUncompressed, header.Flags)
	assert.EqualValues(t, 1234, header.RawSize)
}

func TestFileHeader_InvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:   [4]byte{'I', 'N', 'V', 'L'},
		Version: FormatVersion,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, invalidHeader))

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestFileHeader_InvalidVersion(t *testing.T) {
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:   [4]byte{'G', 'O', 'D', 'B'},
		Version: 99,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, invalidHeader))

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file version")
}

func TestFileHeader_Truncated(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader([]byte("GOD")))
	assert.Error(t, err)
}
