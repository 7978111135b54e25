package iox

import (
	"io"
	"os"
)

// WriteStreamToFile copies src into a new file. If the copy fails partway,
// the file is removed, so you never end up with a truncated file on disk.
func WriteStreamToFile(dstFilename string, src io.Reader) error {
	dstFile, err := os.Create(dstFilename)
	if err != nil {
		return err
	}
	defer dstFile.Close()
	_, err = io.Copy(dstFile, src)
	if err != nil {
		os.Remove(dstFilename)
		return err
	}
	return nil
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
