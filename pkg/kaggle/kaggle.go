// Package kaggle is a minimal client for downloading public Kaggle datasets.
// It speaks the same v1 REST endpoint as the official CLI, with credentials
// read from the usual places (KAGGLE_USERNAME/KAGGLE_KEY or
// ~/.kaggle/kaggle.json).
package kaggle

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/iox"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/kibi"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/www"
)

const apiRoot = "https://www.kaggle.com/api/v1"

// Credentials for the Kaggle API
type Credentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// LoadCredentials reads Kaggle credentials from KAGGLE_USERNAME and
// KAGGLE_KEY, falling back to ~/.kaggle/kaggle.json
func LoadCredentials() (*Credentials, error) {
	username := os.Getenv("KAGGLE_USERNAME")
	key := os.Getenv("KAGGLE_KEY")
	if username != "" && key != "" {
		return &Credentials{Username: username, Key: key}, nil
	}
	home, _ := os.UserHomeDir()
	fn := filepath.Join(home, ".kaggle", "kaggle.json")
	raw, err := os.ReadFile(fn)
	if err != nil {
		return nil, fmt.Errorf("No Kaggle credentials. Set KAGGLE_USERNAME and KAGGLE_KEY, or create %v", fn)
	}
	creds := &Credentials{}
	if err := json.Unmarshal(raw, creds); err != nil {
		return nil, fmt.Errorf("Failed to parse %v: %w", fn, err)
	}
	if creds.Username == "" || creds.Key == "" {
		return nil, fmt.Errorf("%v must contain username and key", fn)
	}
	return creds, nil
}

// Client downloads and extracts datasets
type Client struct {
	log   logs.Log
	creds *Credentials
}

func NewClient(log logs.Log, creds *Credentials) *Client {
	return &Client{
		log:   log,
		creds: creds,
	}
}

// DownloadDataset fetches the archive of the dataset ("owner/name") and
// extracts it into targetDir. If targetDir already has content then the
// download is skipped, so reruns are cheap.
func (c *Client) DownloadDataset(slug, targetDir string) error {
	if hasContent(targetDir) {
		c.log.Infof("Dataset %v already present in %v, skipping", slug, targetDir)
		return nil
	}
	if err := os.MkdirAll(targetDir, 0777); err != nil {
		return err
	}
	zipFilename := filepath.Join(targetDir, strings.ReplaceAll(slug, "/", "_")+".zip")
	c.log.Infof("Downloading dataset %v", slug)
	if err := c.downloadZip(slug, zipFilename); err != nil {
		return err
	}
	if st, err := os.Stat(zipFilename); err == nil {
		c.log.Infof("Downloaded %v (%v)", slug, kibi.Bytes(st.Size()))
	}
	nFiles, err := Unzip(zipFilename, targetDir)
	if err != nil {
		return err
	}
	if err := os.Remove(zipFilename); err != nil {
		return err
	}
	c.log.Infof("Dataset %v ready (%v files)", slug, nFiles)
	return nil
}

func (c *Client) downloadZip(slug, dstFilename string) error {
	req, err := http.NewRequest("GET", apiRoot+"/datasets/download/"+slug, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Key)
	resp, err := www.Do(req)
	if err != nil {
		return fmt.Errorf("Dataset download of %v failed: %w", slug, err)
	}
	defer resp.Body.Close()
	return iox.WriteStreamToFile(dstFilename, resp.Body)
}

// Unzip extracts an archive into dstDir, refusing entries that would land
// outside it. Returns the number of files extracted.
func Unzip(zipFilename, dstDir string) (int, error) {
	zr, err := zip.OpenReader(zipFilename)
	if err != nil {
		return 0, err
	}
	defer zr.Close()
	extracted := 0
	for _, f := range zr.File {
		dst := filepath.Join(dstDir, filepath.FromSlash(f.Name))
		rel, err := filepath.Rel(dstDir, dst)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return extracted, fmt.Errorf("Archive entry '%v' escapes the target directory", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dst, 0777); err != nil {
				return extracted, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
			return extracted, err
		}
		src, err := f.Open()
		if err != nil {
			return extracted, err
		}
		err = iox.WriteStreamToFile(dst, src)
		src.Close()
		if err != nil {
			return extracted, err
		}
		extracted++
	}
	return extracted, nil
}

func hasContent(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
