package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/kaggle"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/pestdata"
	"github.com/akamensky/argparse"
)

func main() {
	parser := argparse.NewParser("fetchdata", "Download the pest image and pesticide datasets from Kaggle")
	dataRoot := parser.String("d", "data", &argparse.Options{Help: "Directory to download datasets into", Default: "data"})
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

	creds, err := kaggle.LoadCredentials()
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	client := kaggle.NewClient(logger, creds)
	for _, src := range pestdata.Sources {
		if err := client.DownloadDataset(src.Slug, filepath.Join(*dataRoot, src.Dir)); err != nil {
			logger.Errorf("Failed to download %v: %v", src.Slug, err)
			os.Exit(1)
		}
	}
	logger.Infof("All datasets ready under %v", *dataRoot)
}
