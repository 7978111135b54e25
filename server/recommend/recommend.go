// Package recommend maps pest names to pesticide treatments.
//
// The pesticide table is populated at startup, either from a dataset CSV
// (eg the one shipped with Pestopia) or from the built-in default table.
// Lookups are forgiving about naming, because classifier class names rarely
// match the treatment table exactly ("aphids" vs "aphid").
package recommend

import (
	"errors"
	"strings"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"gorm.io/gorm"
)

type RecommendServer struct {
	log logs.Log
	db  *gorm.DB
}

func NewRecommendServer(log logs.Log, db *gorm.DB) *RecommendServer {
	return &RecommendServer{
		log: log,
		db:  db,
	}
}

// Lookup returns the treatments for the given pest, in table order.
// Matching is case insensitive. First preference is rows whose pest name
// contains the query. If there are none, we relax to a two-way substring
// match over the distinct pest names, so that "aphids" finds the "aphid"
// rows, and return the rows of the first related name. An empty query
// returns no rows.
func (s *RecommendServer) Lookup(pestName string) ([]model.Pesticide, error) {
	clean := strings.ToLower(strings.TrimSpace(pestName))
	if clean == "" {
		return []model.Pesticide{}, nil
	}
	matches := []model.Pesticide{}
	if err := s.db.Where("LOWER(pest_name) LIKE ?", "%"+clean+"%").Order("id").Find(&matches).Error; err != nil {
		return nil, err
	}
	if len(matches) != 0 {
		return matches, nil
	}
	pests, err := s.AllPests()
	if err != nil {
		return nil, err
	}
	for _, pest := range pests {
		lowered := strings.ToLower(pest)
		if strings.Contains(clean, lowered) || strings.Contains(lowered, clean) {
			err := s.db.Where("pest_name = ?", pest).Order("id").Find(&matches).Error
			return matches, err
		}
	}
	return []model.Pesticide{}, nil
}

// AllPests returns the distinct pest names, ordered by first appearance in the table.
func (s *RecommendServer) AllPests() ([]string, error) {
	names, err := dbh.ScanArray[string](s.db.Raw("SELECT pest_name FROM pesticide ORDER BY id").Rows())
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	unique := []string{}
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	return unique, nil
}

// AddPesticide inserts a new treatment row.
func (s *RecommendServer) AddPesticide(p *model.Pesticide) error {
	p.ID = 0
	p.PestName = strings.TrimSpace(p.PestName)
	p.PesticideName = strings.TrimSpace(p.PesticideName)
	if p.PestName == "" || p.PesticideName == "" {
		return errors.New("A treatment needs both a pest name and a pesticide name")
	}
	return s.db.Create(p).Error
}
