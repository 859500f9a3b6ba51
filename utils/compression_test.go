package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	original := []byte(strings.Repeat("document content with repetition. ", 200))

	compressed, err := CompressData(original)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Fatalf("repetitive input should compress: %d >= %d", len(compressed), len(original))
	}

	decompressed, err := DecompressData(compressed)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Fatal("round trip mismatch")
	}
}

func TestCompressEmpty(t *testing.T) {
	compressed, err := CompressData(nil)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	decompressed, err := DecompressData(compressed)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if len(decompressed) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(decompressed))
	}
}

func TestDecompressInvalidData(t *testing.T) {
	if _, err := DecompressData([]byte("not gzip data")); err == nil {
		t.Fatal("expected error for invalid input")
	}
}
