package server

import (
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
)

type Config struct {
	DB       dbh.DBConfig `json:"db"`
	HTTPPort int          `json:"httpPort"` // Default 8080
	Hostname string       `json:"hostname"` // eg "pest.example.com". When set, the server listens with ACME TLS instead of plain HTTP.

	Model        string `json:"model"`        // Path to the ONNX classifier model
	ModelConfig  string `json:"modelConfig"`  // Path to the model's JSON sidecar. Optional.
	ClassMapping string `json:"classMapping"` // Path to class_mapping.json, written by preprocess. Needed if the model config has no class list.

	DataRoot     string `json:"dataRoot"`     // Root of the downloaded datasets (eg "data"). Used to discover the pesticide CSV.
	PesticideCSV string `json:"pesticideCsv"` // Explicit pesticide table CSV. Optional.

	DetectionStorage StorageConfig `json:"detectionStorage"`
}

// One of the storage options must be configured (i.e. either 'filesystem' or 'gcs')
type StorageConfig struct {
	Filesystem *StorageConfigFS  `json:"filesystem"`
	GCS        *StorageConfigGCS `json:"gcs"`
}

type StorageConfigFS struct {
	Root string `json:"root"` // Path to the root of the filesystem
}

type StorageConfigGCS struct {
	Bucket string `json:"bucket"` // Name of the GCS bucket
}
