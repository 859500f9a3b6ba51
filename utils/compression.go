package utils

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Content records can carry the full extracted text of large documents;
// they are gzip-compressed before being written to the content store.

// CompressData gzip-compresses data. Empty input passes through unchanged.
func CompressData(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write to gzip writer: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressData reverses CompressData.
func DecompressData(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return compressed, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from gzip reader: %w", err)
	}
	return data, nil
}
