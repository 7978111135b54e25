package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/classify"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/pestdata"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/recommend"
	"github.com/akamensky/argparse"
)

func main() {
	parser := argparse.NewParser("predict", "Classify a pest photo and print treatment recommendations")
	modelFile := parser.String("m", "model", &argparse.Options{Help: "Path to the ONNX classifier model", Required: true})
	imageFile := parser.String("i", "image", &argparse.Options{Help: "Image to classify", Required: true})
	mappingFile := parser.String("", "mapping", &argparse.Options{Help: "Path to class_mapping.json, written by preprocess", Default: ""})
	configFile := parser.String("", "modelconfig", &argparse.Options{Help: "Path to the model's JSON sidecar", Default: ""})
	csvFile := parser.String("", "csv", &argparse.Options{Help: "Pesticide table CSV (default: built-in table)", Default: ""})
	threshold := parser.Float("t", "threshold", &argparse.Options{Help: "Confidence threshold, 0..1", Default: float64(classify.DefaultConfidenceThreshold)})
	overlayFile := parser.String("o", "overlay", &argparse.Options{Help: "Write the overlaid JPEG to this path", Default: ""})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	modelConfig := classify.DefaultModelConfig()
	if *configFile != "" {
		modelConfig, err = classify.LoadModelConfig(*configFile)
		if err != nil {
			logger.Errorf("Failed to load model config %v: %v", *configFile, err)
			os.Exit(1)
		}
	}
	if len(modelConfig.Classes) == 0 {
		if *mappingFile == "" {
			logger.Errorf("No class names available. Pass --mapping with the class_mapping.json written by preprocess")
			os.Exit(1)
		}
		mapping, err := pestdata.LoadClassMapping(*mappingFile)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		modelConfig.Classes = mapping.Classes()
	}

	classifier, err := classify.NewOnnxClassifier(logger, *modelFile, modelConfig)
	if err != nil {
		logger.Errorf("Failed to load model %v: %v", *modelFile, err)
		os.Exit(1)
	}
	defer classifier.Close()

	img, err := classify.ReadRGBFile(*imageFile)
	if err != nil {
		logger.Errorf("Failed to read image %v: %v", *imageFile, err)
		os.Exit(1)
	}
	result, err := classifier.ClassifyImage(img)
	if err != nil {
		logger.Errorf("Classification failed: %v", err)
		os.Exit(1)
	}

	if result.Primary.Confidence < float32(*threshold) {
		fmt.Printf("No confident detection. Best guess %v (%.1f%%), below threshold %.0f%%\n",
			result.Primary.Label, result.Primary.Confidence*100, *threshold*100)
		fmt.Printf("Try a sharper or closer photo of the pest.\n")
		return
	}

	fmt.Printf("Detected: %v (%.1f%%)\n", result.Primary.Label, result.Primary.Confidence*100)
	fmt.Printf("Top predictions:\n")
	for _, p := range result.Top {
		fmt.Printf("  %-24v %5.1f%%\n", p.Label, p.Confidence*100)
	}

	if *overlayFile != "" {
		overlaid := classify.DrawOverlay(img, result.Primary.Label, result.Primary.Confidence)
		jpg, err := classify.CompressJPEG(overlaid, 90)
		if err == nil {
			err = os.WriteFile(*overlayFile, jpg, 0666)
		}
		if err != nil {
			logger.Errorf("Failed to write overlay %v: %v", *overlayFile, err)
			os.Exit(1)
		}
		fmt.Printf("Overlay written to %v\n", *overlayFile)
	}

	printRecommendations(logger, *csvFile, result.Primary.Label)
}

// The recommender runs on a throwaway sqlite DB, so the lookup behaves
// exactly like the server's.
func printRecommendations(logger logs.Log, csvFile, pest string) {
	tmpDir, err := os.MkdirTemp("", "predict")
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)
	db, err := dbh.OpenDB(logger, dbh.MakeSqliteConfig(filepath.Join(tmpDir, "predict.sqlite")), model.Migrations(logger), 0)
	if err != nil {
		logger.Errorf("Failed to open treatments DB: %v", err)
		os.Exit(1)
	}
	recommender := recommend.NewRecommendServer(logger, db)
	if err := recommender.EnsureSeeded(csvFile, ""); err != nil {
		logger.Errorf("Failed to load treatments: %v", err)
		os.Exit(1)
	}
	treatments, err := recommender.Lookup(pest)
	if err != nil {
		logger.Errorf("Treatment lookup failed: %v", err)
		os.Exit(1)
	}
	if len(treatments) == 0 {
		fmt.Printf("No treatments on record for %v\n", pest)
		return
	}
	fmt.Printf("Recommended treatments for %v:\n", pest)
	for _, tr := range treatments {
		fmt.Printf("  %-28v %-12v %v\n", tr.PesticideName, tr.ApplicationRate, tr.Effectiveness)
	}
}
