package recommend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"github.com/stretchr/testify/require"
)

func createTestServer(t *testing.T) *RecommendServer {
	logger := logs.NewTestingLog(t)
	db, err := dbh.OpenDB(logger, dbh.MakeSqliteConfig(filepath.Join(t.TempDir(), "test.sqlite")), model.Migrations(logger), 0)
	require.NoError(t, err)
	return NewRecommendServer(logger, db)
}

func numTreatments(t *testing.T, s *RecommendServer) int {
	n := int64(0)
	require.NoError(t, s.db.Model(&model.Pesticide{}).Count(&n).Error)
	return int(n)
}

func TestSeedDefaults(t *testing.T) {
	s := createTestServer(t)
	require.NoError(t, s.EnsureSeeded("", ""))
	require.Equal(t, 34, numTreatments(t, s))

	pests, err := s.AllPests()
	require.NoError(t, err)
	require.Equal(t, []string{"aphid", "thrips", "whitefly", "caterpillar", "beetle", "mite",
		"leafhopper", "scale", "borer", "weevil", "armyworm", "bollworm"}, pests)

	recs, err := s.Lookup("aphid")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.Equal(t, "Imidacloprid", recs[0].PesticideName)
	require.Equal(t, "Thiamethoxam", recs[1].PesticideName)
	require.Equal(t, "Acetamiprid", recs[2].PesticideName)
	require.Equal(t, "0.5ml/L", recs[0].ApplicationRate)
	require.Equal(t, "High", recs[0].Effectiveness)

	// Seeding twice must not duplicate the table
	require.NoError(t, s.EnsureSeeded("", ""))
	require.Equal(t, 34, numTreatments(t, s))
}

func TestLookup(t *testing.T) {
	s := createTestServer(t)
	require.NoError(t, s.EnsureSeeded("", ""))

	// Direct substring match can span multiple pest names
	recs, err := s.Lookup("worm")
	require.NoError(t, err)
	require.Len(t, recs, 4)
	require.Equal(t, "armyworm", recs[0].PestName)
	require.Equal(t, "bollworm", recs[3].PestName)

	// Case insensitive
	recs, err = s.Lookup("APHID")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// Relaxed match: classifier class "aphids" is not a substring of any
	// pest name, but "aphid" is a substring of the query
	recs, err = s.Lookup("aphids")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.Equal(t, "aphid", recs[0].PestName)

	recs, err = s.Lookup("fall armyworm")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "Spinetoram", recs[0].PesticideName)

	// No match and empty queries return empty lists, not errors
	for _, q := range []string{"zebra", "", "   "} {
		recs, err = s.Lookup(q)
		require.NoError(t, err)
		require.Len(t, recs, 0)
	}
}

func TestAddPesticide(t *testing.T) {
	s := createTestServer(t)

	require.NoError(t, s.AddPesticide(&model.Pesticide{PestName: "cutworm", PesticideName: "Chlorpyrifos"}))
	require.NoError(t, s.AddPesticide(&model.Pesticide{PestName: "aphid", PesticideName: "Imidacloprid"}))
	require.NoError(t, s.AddPesticide(&model.Pesticide{PestName: "cutworm", PesticideName: "Deltamethrin"}))

	// First-appearance order, not alphabetical
	pests, err := s.AllPests()
	require.NoError(t, err)
	require.Equal(t, []string{"cutworm", "aphid"}, pests)

	require.Error(t, s.AddPesticide(&model.Pesticide{PestName: "cutworm"}))
	require.Error(t, s.AddPesticide(&model.Pesticide{PesticideName: "Dicofol"}))
	require.Error(t, s.AddPesticide(&model.Pesticide{PestName: "  ", PesticideName: "Dicofol"}))
}

func TestImportCSV(t *testing.T) {
	s := createTestServer(t)

	// Pestopia-style headers, with an unknown column and skippable rows
	pestopia := strings.Join([]string{
		"Pest Name,Most Commonly Used Pesticides,Region",
		"Red Spider Mite,Dicofol,Asia",
		"Stem Borer,Cartap,Asia",
		",Orphan,Asia",
		"Leaf Roller,,Asia",
		"Short Row",
	}, "\n")
	n, err := s.ImportCSV(strings.NewReader(pestopia), ImportReplace)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 2, numTreatments(t, s))

	pests, err := s.AllPests()
	require.NoError(t, err)
	require.Equal(t, []string{"Red Spider Mite", "Stem Borer"}, pests)

	recs, err := s.Lookup("spider mite")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "Dicofol", recs[0].PesticideName)
	require.Equal(t, "", recs[0].ApplicationRate)

	// Our own export headers, append mode
	export := strings.Join([]string{
		"pest_name,pesticide_name,application_rate,effectiveness",
		"aphid,Imidacloprid,0.5ml/L,High",
	}, "\n")
	n, err = s.ImportCSV(strings.NewReader(export), ImportAppend)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 3, numTreatments(t, s))

	recs, err = s.Lookup("aphid")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "0.5ml/L", recs[0].ApplicationRate)
	require.Equal(t, "High", recs[0].Effectiveness)

	// Replace mode wipes the previous rows
	n, err = s.ImportCSV(strings.NewReader(export), ImportReplace)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 1, numTreatments(t, s))

	// Unusable CSVs
	_, err = s.ImportCSV(strings.NewReader("color,smell\nred,bad"), ImportReplace)
	require.Error(t, err)
	_, err = s.ImportCSV(strings.NewReader("pest_name,pesticide_name\n,\n"), ImportReplace)
	require.Error(t, err)
	require.Equal(t, 1, numTreatments(t, s))
}

func TestEnsureSeededFromCSV(t *testing.T) {
	s := createTestServer(t)

	dataRoot := t.TempDir()
	deep := filepath.Join(dataRoot, "pestopia", "details")
	require.NoError(t, os.MkdirAll(deep, 0755))
	csv := "Pest Name,Most Commonly Used Pesticides\nRice Weevil,Malathion\n"
	require.NoError(t, os.WriteFile(filepath.Join(deep, "pest_info.csv"), []byte(csv), 0644))

	require.NoError(t, s.EnsureSeeded("", dataRoot))
	pests, err := s.AllPests()
	require.NoError(t, err)
	require.Equal(t, []string{"Rice Weevil"}, pests)

	// An explicit CSV path wins over discovery, but only on an empty table
	s2 := createTestServer(t)
	require.NoError(t, s2.EnsureSeeded(filepath.Join(deep, "pest_info.csv"), ""))
	require.Equal(t, 1, numTreatments(t, s2))

	// A missing explicit path is an error
	s3 := createTestServer(t)
	require.Error(t, s3.EnsureSeeded(filepath.Join(dataRoot, "nope.csv"), ""))
}
