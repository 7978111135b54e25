package pestdata

import (
	"path/filepath"
	"strings"
)

// PestKeywords are the pest families we recognize in raw dataset paths.
// Order matters: the first keyword found in a path wins.
var PestKeywords = []string{
	"aphid", "thrips", "whitefly", "caterpillar", "beetle",
	"mite", "leafhopper", "scale", "borer", "weevil",
	"armyworm", "bollworm", "cutworm", "wireworm",
}

// ClassifyPath derives a pest class name from the directory that holds an
// image. If any keyword occurs anywhere in the path (case-insensitive), that
// keyword is the class. Otherwise the leaf folder name is used verbatim, so
// dataset folders that name a pest we don't have a keyword for still become
// their own class. Returns "" when the path yields no usable class (eg a
// bare "images" folder).
func ClassifyPath(dir string) string {
	lower := strings.ToLower(dir)
	for _, keyword := range PestKeywords {
		if strings.Contains(lower, keyword) {
			return keyword
		}
	}
	folder := strings.ToLower(filepath.Base(dir))
	if folder == "" || folder == "images" || folder == "." || folder == string(filepath.Separator) {
		return ""
	}
	return folder
}

// IsImageFilename is true for the image types we ingest
func IsImageFilename(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
