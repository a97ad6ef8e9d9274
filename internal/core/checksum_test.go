package core

import (
	"encoding/hex"
	"strings"
	"testing"

	"golang.org/x/crypto/blake2b"
)

func TestChecksum(t *testing.T) {
	blake := blake2b.Sum256([]byte("hello"))

	tests := []struct {
		algo Algorithm
		want string
	}{
		{MD5, "5d41402abc4b2a76b9719d911017c592"},
		{SHA256, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{BLAKE2b, hex.EncodeToString(blake[:])},
	}

	for _, tt := range tests {
		t.Run(string(tt.algo), func(t *testing.T) {
			got, err := Checksum(strings.NewReader("hello"), tt.algo)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("unknown algorithm", func(t *testing.T) {
		if _, err := Checksum(strings.NewReader("hello"), Algorithm("crc32")); err == nil {
			t.Fatal("expected error for unknown algorithm")
		}
	})
}

func TestChecksumFile(t *testing.T) {
	t.Run("returns digest and size", func(t *testing.T) {
		path := setupTestFile(t, "hello.txt", "hello")

		sum, size, err := ChecksumFile(path, MD5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sum != "5d41402abc4b2a76b9719d911017c592" {
			t.Errorf("unexpected checksum %s", sum)
		}
		if size != 5 {
			t.Errorf("expected size 5, got %d", size)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := setupTestFile(t, "empty.txt", "")

		sum, size, err := ChecksumFile(path, MD5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sum != "d41d8cd98f00b204e9800998ecf8427e" {
			t.Errorf("unexpected checksum %s", sum)
		}
		if size != 0 {
			t.Errorf("expected size 0, got %d", size)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := ChecksumFile("/nonexistent/file.txt", MD5); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
