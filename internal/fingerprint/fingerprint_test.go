package fingerprint

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{
			name:    "empty",
			content: nil,
			want:    "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:    "abc",
			content: []byte("abc"),
			want:    "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".pdf")
			require.NoError(t, os.WriteFile(path, tt.content, 0o600))

			got, err := File(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFile_SameContentSameHash(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("statement line\n"), BlockSize/8)

	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "renamed copy.pdf")
	require.NoError(t, os.WriteFile(a, content, 0o600))
	require.NoError(t, os.WriteFile(b, content, 0o600))

	hashA, err := File(a)
	require.NoError(t, err)
	hashB, err := File(b)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB)
	assert.Len(t, hashA, 64)
	assert.Equal(t, strings.ToLower(hashA), hashA)
}

func TestFile_Missing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "gone.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

