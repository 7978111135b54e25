package recommend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
)

type ImportMode string

const (
	// ImportReplace erases the existing table before inserting
	ImportReplace ImportMode = "replace"
	// ImportAppend adds to whatever is already there
	ImportAppend ImportMode = "append"
)

// Column indices inside a treatment CSV, -1 when absent
type csvColumns struct {
	pest      int
	pesticide int
	rate      int
	effect    int
}

// Treatment CSVs come in two flavors: the Pestopia dataset's hand-written
// headers ("Pest Name", "Most Commonly Used Pesticides"), and our own export
// format (pest_name, pesticide_name, application_rate, effectiveness).
// We accept either, case insensitively.
func sniffColumns(header []string) (csvColumns, error) {
	cols := csvColumns{pest: -1, pesticide: -1, rate: -1, effect: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "pest name", "pest_name":
			cols.pest = i
		case "most commonly used pesticides", "pesticide_name":
			cols.pesticide = i
		case "application rate", "application_rate":
			cols.rate = i
		case "effectiveness":
			cols.effect = i
		}
	}
	if cols.pest == -1 || cols.pesticide == -1 {
		return cols, fmt.Errorf("CSV is missing a pest name or pesticide column (header is %v)", strings.Join(header, ","))
	}
	return cols, nil
}

// ImportCSV reads treatments from src and inserts them into the pesticide table.
// Rows without a pest name or pesticide name are skipped.
// Returns the number of rows inserted.
func (s *RecommendServer) ImportCSV(src io.Reader, mode ImportMode) (int, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("Failed to read CSV header: %w", err)
	}
	cols, err := sniffColumns(header)
	if err != nil {
		return 0, err
	}
	field := func(record []string, i int) string {
		if i >= 0 && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	rows := []model.Pesticide{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return 0, fmt.Errorf("Failed to read CSV row %v: %w", len(rows)+2, err)
		}
		p := model.Pesticide{
			PestName:        field(record, cols.pest),
			PesticideName:   field(record, cols.pesticide),
			ApplicationRate: field(record, cols.rate),
			Effectiveness:   field(record, cols.effect),
		}
		if p.PestName == "" || p.PesticideName == "" {
			continue
		}
		rows = append(rows, p)
	}
	if len(rows) == 0 {
		return 0, errors.New("CSV contains no usable treatment rows")
	}
	return len(rows), s.insertRows(rows, mode)
}

func (s *RecommendServer) insertRows(rows []model.Pesticide, mode ImportMode) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()
	if mode == ImportReplace {
		if err := tx.Exec("DELETE FROM pesticide").Error; err != nil {
			return err
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return err
	}
	return tx.Commit().Error
}

// DiscoverCSV walks dir and returns the first CSV file found, or "" if there is none.
func DiscoverCSV(dir string) string {
	found := ""
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// EnsureSeeded populates the pesticide table if it is empty.
// Preference order: csvFilename if given, then the first CSV under discoverDir,
// then the built-in default table.
func (s *RecommendServer) EnsureSeeded(csvFilename, discoverDir string) error {
	n := int64(0)
	if err := s.db.Model(&model.Pesticide{}).Count(&n).Error; err != nil {
		return err
	}
	if n != 0 {
		return nil
	}
	if csvFilename == "" && discoverDir != "" {
		csvFilename = DiscoverCSV(discoverDir)
	}
	if csvFilename != "" {
		file, err := os.Open(csvFilename)
		if err != nil {
			return err
		}
		defer file.Close()
		nRows, err := s.ImportCSV(file, ImportReplace)
		if err != nil {
			return fmt.Errorf("Failed to import treatments from %v: %w", csvFilename, err)
		}
		s.log.Infof("Loaded %v treatments from %v", nRows, csvFilename)
		return nil
	}
	defaults := DefaultPesticides()
	if err := s.insertRows(defaults, ImportAppend); err != nil {
		return err
	}
	s.log.Infof("No treatment CSV found, loaded built-in table (%v rows)", len(defaults))
	return nil
}
