package storage

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// Flush persists the database to disk if it has unsaved writes
func (db *Database) Flush() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed || !db.dirty {
		return nil
	}
	return db.saveLocked()
}

// IsDirty reports whether the database has writes not yet on disk
func (db *Database) IsDirty() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.dirty
}

// saveLocked writes the database file; caller holds db.mu.
func (db *Database) saveLocked() error {
	storageData := NewStorageData()
	for docID, doc := range db.docs {
		storageData.Documents[docID] = map[string]interface{}(doc)
	}
	for docID, seq := range db.seqs {
		storageData.Sequences[docID] = seq
	}
	storageData.LastSeq = db.lastSeq
	storageData.Indexes = db.indexes.GetIndexes()

	msgpackData, err := msgpack.Marshal(storageData)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressedData := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressedData, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}

	// lz4 reports incompressible input with n == 0
	flags := uint8(0)
	body := compressedData[:n]
	if n == 0 {
		flags = FlagUncompressed
		body = msgpackData
	}

	var buf bytes.Buffer
	if err := WriteHeader(&buf, flags, len(msgpackData)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	buf.Write(body)

	// Write to temporary file first, then rename (atomic operation)
	tempFile := db.path + ".tmp"
	if err := os.WriteFile(tempFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write database file: %w", err)
	}
	if err := os.Rename(tempFile, db.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename database file: %w", err)
	}

	db.dirty = false
	db.engine.logger.Debugw("Saved database", "name", db.name, "documents", len(db.docs), "bytes", buf.Len())
	return nil
}

// load reads the database file if it exists. A missing or empty file is an
// empty database.
func (db *Database) load() error {
	data, err := os.ReadFile(db.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	reader := bytes.NewReader(data)
	header, err := ReadHeader(reader)
	if err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}
	body := data[len(data)-reader.Len():]

	raw := body
	if header.Flags&FlagUncompressed == 0 {
		raw = make([]byte, header.RawSize)
		n, err := lz4.UncompressBlock(body, raw)
		if err != nil {
			return fmt.Errorf("failed to decompress data: %w", err)
		}
		raw = raw[:n]
	}

	var storageData StorageData
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&storageData); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	for docID, doc := range storageData.Documents {
		db.docs[docID] = domain.Document(doc)
	}
	for docID, seq := range storageData.Sequences {
		db.seqs[docID] = seq
	}
	db.lastSeq = storageData.LastSeq
	for _, fieldName := range storageData.Indexes {
		if err := db.indexes.CreateIndex(fieldName, db.docs); err != nil {
			return fmt.Errorf("failed to rebuild index %s: %w", fieldName, err)
		}
	}
	return nil
}
