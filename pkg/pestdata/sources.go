package pestdata

import "path/filepath"

// Source is one Kaggle dataset that the system is built from
type Source struct {
	Slug string // Kaggle dataset, "owner/name"
	Dir  string // Directory name under the local data root
}

// Sources lists the Kaggle datasets we ingest. The first two carry the
// classifier training images; pestopia carries the pest-to-pesticide table.
var Sources = []Source{
	{Slug: "nirmalsankalana/crop-pest-and-disease-detection", Dir: "crop_pest"},
	{Slug: "gauravduttakiit/agricultural-pests-dataset", Dir: "ag_pests"},
	{Slug: "shruthisindhura/pestopia", Dir: "pestopia"},
}

// ImageSourceDirs returns the raw training image roots under dataRoot
func ImageSourceDirs(dataRoot string) []string {
	return []string{
		filepath.Join(dataRoot, "crop_pest"),
		filepath.Join(dataRoot, "ag_pests"),
	}
}

// PestopiaDir is where the pesticide table dataset lands
func PestopiaDir(dataRoot string) string {
	return filepath.Join(dataRoot, "pestopia")
}
