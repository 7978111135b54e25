package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/pestdata"
	"github.com/akamensky/argparse"
)

func main() {
	parser := argparse.NewParser("preprocess", "Build the unified training tree from the raw Kaggle downloads")
	dataRoot := parser.String("d", "data", &argparse.Options{Help: "Directory holding the raw dataset downloads", Default: "data"})
	outputDir := parser.String("o", "output", &argparse.Options{Help: "Directory to build the processed dataset in", Default: "processed_data"})
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

	builder := pestdata.NewBuilder(logger, pestdata.ImageSourceDirs(*dataRoot), *outputDir)
	stats, err := builder.Build()
	if err != nil {
		logger.Errorf("Dataset build failed: %v", err)
		os.Exit(1)
	}

	classes := make([]string, 0, len(stats.PerClass))
	for class := range stats.PerClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	fmt.Printf("Images per class:\n")
	for _, class := range classes {
		fmt.Printf("  %-24v %v\n", class, stats.PerClass[class])
	}
	fmt.Printf("Total: %v images (%v train, %v val, %v removed as undecodable)\n",
		stats.Images, stats.Train, stats.Val, stats.Removed)
}
