package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{bytes: -1, want: "N/A"},
		{bytes: 0, want: "0 B"},
		{bytes: 512, want: "512 B"},
		{bytes: 1024, want: "1.0 KB"},
		{bytes: 5500, want: "5.4 KB"},
		{bytes: 1024 * 1024, want: "1.0 MB"},
		{bytes: 3 * 1024 * 1024 * 1024, want: "3.0 GB"},
		{bytes: 2 * 1024 * 1024 * 1024 * 1024, want: "2.0 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.bytes), "bytes=%d", tt.bytes)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{n: 0, want: "0"},
		{n: 7, want: "7"},
		{n: 999, want: "999"},
		{n: 1000, want: "1,000"},
		{n: 1234567, want: "1,234,567"},
		{n: -4200, want: "-4,200"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.n), "n=%d", tt.n)
	}
}
