package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/stretchr/testify/require"
)

func TestStorageFS(t *testing.T) {
	root := t.TempDir()
	fs, err := NewStorageFS(logs.NewTestingLog(t), root)
	require.NoError(t, err)

	content := []byte("jpeg bytes go here")
	require.NoError(t, WriteFile(fs, "detections/2025-01/7.jpg", bytes.NewReader(content)))

	raw, err := ReadFile(fs, "detections/2025-01/7.jpg")
	require.NoError(t, err)
	require.Equal(t, content, raw)

	f, err := fs.ReadFile("detections/2025-01/7.jpg")
	require.NoError(t, err)
	require.Equal(t, int64(len(content)), f.Size)
	require.NoError(t, f.Reader.Close())

	require.NoError(t, fs.DeleteFile("detections/2025-01/7.jpg"))
	_, err = fs.ReadFile("detections/2025-01/7.jpg")
	require.Error(t, err)
}

func TestStorageFSInvalidName(t *testing.T) {
	root := t.TempDir()
	fs, err := NewStorageFS(logs.NewTestingLog(t), root)
	require.NoError(t, err)

	// Nothing may escape the storage root
	_, err = fs.WriteFile("../escape.jpg")
	require.Error(t, err)
	_, err = fs.ReadFile("../../etc/passwd")
	require.Error(t, err)
	require.Error(t, fs.DeleteFile("a/../../b.jpg"))

	_, err = os.Stat(filepath.Join(root, "..", "escape.jpg"))
	require.True(t, os.IsNotExist(err))
}
