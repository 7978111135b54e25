package kaggle

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, filename string, entries map[string]string) {
	buf := bytes.Buffer{}
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filename, buf.Bytes(), 0666))
}

func TestUnzip(t *testing.T) {
	tmp := t.TempDir()
	zipFilename := filepath.Join(tmp, "data.zip")
	writeZip(t, zipFilename, map[string]string{
		"readme.txt":           "hello",
		"images/aphid/one.jpg": "fakejpeg",
	})
	out := filepath.Join(tmp, "out")
	n, err := Unzip(zipFilename, out)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	raw, err := os.ReadFile(filepath.Join(out, "images", "aphid", "one.jpg"))
	require.NoError(t, err)
	require.Equal(t, "fakejpeg", string(raw))
}

func TestUnzipSlip(t *testing.T) {
	tmp := t.TempDir()
	zipFilename := filepath.Join(tmp, "evil.zip")
	writeZip(t, zipFilename, map[string]string{
		"../evil.txt": "gotcha",
	})
	out := filepath.Join(tmp, "out")
	require.NoError(t, os.MkdirAll(out, 0777))
	_, err := Unzip(zipFilename, out)
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(tmp, "evil.txt"))
	require.True(t, os.IsNotExist(statErr))
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("KAGGLE_USERNAME", "alice")
	t.Setenv("KAGGLE_KEY", "secret")
	creds, err := LoadCredentials()
	require.NoError(t, err)
	require.Equal(t, "alice", creds.Username)
	require.Equal(t, "secret", creds.Key)

	// Fall back to ~/.kaggle/kaggle.json
	home := t.TempDir()
	t.Setenv("KAGGLE_USERNAME", "")
	t.Setenv("KAGGLE_KEY", "")
	t.Setenv("HOME", home)
	_, err = LoadCredentials()
	require.Error(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".kaggle"), 0777))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".kaggle", "kaggle.json"), []byte(`{"username":"bob","key":"k2"}`), 0600))
	creds, err = LoadCredentials()
	require.NoError(t, err)
	require.Equal(t, "bob", creds.Username)
	require.Equal(t, "k2", creds.Key)
}

func TestDownloadSkipsExisting(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "crop_pest")
	require.NoError(t, os.MkdirAll(target, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(target, "marker.txt"), []byte("x"), 0666))

	// Bogus credentials prove no network request is made
	client := NewClient(logs.NewTestingLog(t), &Credentials{Username: "x", Key: "y"})
	require.NoError(t, client.DownloadDataset("owner/name", target))
}

// Hits the real Kaggle API, so it only runs when KAGGLE_LIVE_TEST is set
// and credentials are configured.
func TestDownloadDataset(t *testing.T) {
	if os.Getenv("KAGGLE_LIVE_TEST") == "" {
		t.Logf("Set KAGGLE_LIVE_TEST=1 to run the live download test")
		t.SkipNow()
	}
	creds, err := LoadCredentials()
	require.NoError(t, err)
	client := NewClient(logs.NewTestingLog(t), creds)
	target := filepath.Join(t.TempDir(), "pestopia")
	require.NoError(t, client.DownloadDataset("shruthisindhura/pestopia", target))
	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}
