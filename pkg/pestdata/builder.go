// Package pestdata builds the unified training tree out of the raw Kaggle
// downloads: per-class image folders, a deterministic train/val split, and
// the class_mapping.json that ties model output indices to pest names.
package pestdata

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/iox"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/bmharper/cimg/v2"
)

// DefaultSeed is the shuffle seed for the train/val split
const DefaultSeed = 42

// BuildStats is what a Build run did
type BuildStats struct {
	Classes  int            // Number of distinct pest classes
	Images   int            // Images copied into the unified tree
	Train    int            // Images placed in train/
	Val      int            // Images placed in val/
	Removed  int            // Undecodable images deleted from train/ and val/
	PerClass map[string]int // Images per class
}

// Builder walks raw dataset trees and produces the processed_data layout:
//
//	<out>/images/<class>/<class>_<n>.jpg
//	<out>/train/<class>/...
//	<out>/val/<class>/...
//	<out>/class_mapping.json
type Builder struct {
	log       logs.Log
	sources   []string
	outputDir string
	seed      int64
	mapping   ClassMapping
	counts    map[string]int
	copied    int
}

func NewBuilder(log logs.Log, sources []string, outputDir string) *Builder {
	return &Builder{
		log:       log,
		sources:   sources,
		outputDir: outputDir,
		seed:      DefaultSeed,
		mapping:   ClassMapping{},
		counts:    map[string]int{},
	}
}

// Mapping returns the class mapping discovered so far
func (b *Builder) Mapping() ClassMapping {
	return b.mapping
}

// Build runs the whole pipeline: unify, split, clean, save mapping
func (b *Builder) Build() (*BuildStats, error) {
	for _, dir := range []string{"images", "train", "val"} {
		if err := os.MkdirAll(filepath.Join(b.outputDir, dir), 0777); err != nil {
			return nil, err
		}
	}
	for _, src := range b.sources {
		if err := b.scanSource(src); err != nil {
			return nil, err
		}
	}
	nTrain, nVal, err := b.split()
	if err != nil {
		return nil, err
	}
	removed := 0
	for _, dir := range []string{"train", "val"} {
		n, err := CleanTree(b.log, filepath.Join(b.outputDir, dir))
		if err != nil {
			return nil, err
		}
		removed += n
	}
	if err := b.mapping.Save(filepath.Join(b.outputDir, "class_mapping.json")); err != nil {
		return nil, err
	}
	stats := &BuildStats{
		Classes:  len(b.mapping),
		Images:   b.copied,
		Train:    nTrain,
		Val:      nVal,
		Removed:  removed,
		PerClass: b.counts,
	}
	b.log.Infof("Dataset build complete: %v classes, %v images (%v train, %v val, %v removed)",
		stats.Classes, stats.Images, stats.Train, stats.Val, stats.Removed)
	return stats, nil
}

// scanSource walks one raw dataset root and copies every classifiable image.
// A missing root is logged and skipped, so a partial download still builds.
func (b *Builder) scanSource(root string) error {
	if !iox.DirExists(root) {
		b.log.Warnf("Dataset path %v does not exist, skipping", root)
		return nil
	}
	b.log.Infof("Scanning %v", root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !IsImageFilename(d.Name()) {
			return err
		}
		class := ClassifyPath(filepath.Dir(path))
		if class == "" {
			return nil
		}
		return b.copyImage(path, class)
	})
}

func (b *Builder) copyImage(src, class string) error {
	classDir := filepath.Join(b.outputDir, "images", class)
	n, seen := b.counts[class]
	if !seen {
		b.mapping.Add(class)
		if err := os.MkdirAll(classDir, 0777); err != nil {
			return err
		}
		// Resume numbering after anything already in the folder
		entries, err := os.ReadDir(classDir)
		if err != nil {
			return err
		}
		n = len(entries)
	}
	dst := filepath.Join(classDir, fmt.Sprintf("%v_%v.jpg", class, n))
	if err := copyFile(src, dst); err != nil {
		return err
	}
	b.counts[class] = n + 1
	b.copied++
	return nil
}

// split shuffles each class with a fixed seed and copies 80% of its images
// into train/ and the rest (rounded up) into val/
func (b *Builder) split() (nTrain, nVal int, err error) {
	for _, class := range b.mapping.Classes() {
		classDir := filepath.Join(b.outputDir, "images", class)
		entries, err := os.ReadDir(classDir)
		if err != nil {
			return 0, 0, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		rnd := rand.New(rand.NewSource(b.seed))
		rnd.Shuffle(len(names), func(i, j int) {
			names[i], names[j] = names[j], names[i]
		})
		valCount := (len(names) + 4) / 5
		for i, name := range names {
			bucket := "train"
			if i < valCount {
				bucket = "val"
			}
			dstDir := filepath.Join(b.outputDir, bucket, class)
			if err := os.MkdirAll(dstDir, 0777); err != nil {
				return 0, 0, err
			}
			if err := copyFile(filepath.Join(classDir, name), filepath.Join(dstDir, name)); err != nil {
				return 0, 0, err
			}
			if bucket == "val" {
				nVal++
			} else {
				nTrain++
			}
		}
	}
	return nTrain, nVal, nil
}

// CleanTree deletes images under root that fail to decode, and returns how
// many it deleted. Corrupt files in public datasets are routine, so this is
// not an error path.
func CleanTree(log logs.Log, root string) (int, error) {
	removed := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !IsImageFilename(d.Name()) {
			return err
		}
		if _, decodeErr := cimg.ReadFile(path); decodeErr != nil {
			log.Infof("Removing invalid image %v (%v)", path, decodeErr)
			removed++
			return os.Remove(path)
		}
		return nil
	})
	return removed, err
}

func copyFile(srcPath, dstPath string) error {
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	return os.WriteFile(dstPath, raw, 0666)
}
