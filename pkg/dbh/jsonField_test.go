package dbh

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type partsList struct {
	Names  []string `json:"names"`
	Counts []int    `json:"counts"`
}

type JSONFieldTester struct {
	ID    int64                 `gorm:"primaryKey" json:"id"`
	Parts *JSONField[partsList] `json:"parts"`
}

func TestJSONField(t *testing.T) {
	db := OpenSqliteTestDB(t)
	require.NoError(t, db.Exec("CREATE TABLE json_field_tester (id INTEGER PRIMARY KEY, parts TEXT)").Error)

	rec := JSONFieldTester{
		ID: 1,
		Parts: MakeJSONField(partsList{
			Names:  []string{"aphids", "beetle"},
			Counts: []int{3, 7},
		}),
	}
	require.NoError(t, db.Save(&rec).Error)

	read := JSONFieldTester{}
	require.NoError(t, db.First(&read).Error)
	require.Equal(t, rec.Parts.Data, read.Parts.Data)

	// The stored value is plain JSON text, readable without the wrapper
	var raw string
	require.NoError(t, db.Raw("SELECT parts FROM json_field_tester WHERE id = 1").Row().Scan(&raw))
	plain := partsList{}
	require.NoError(t, json.Unmarshal([]byte(raw), &plain))
	require.Equal(t, rec.Parts.Data, plain)

	// To the JSON marshaller the wrapper is transparent
	jj, err := json.Marshal(&rec)
	require.NoError(t, err)
	require.Equal(t, `{"id":1,"parts":{"names":["aphids","beetle"],"counts":[3,7]}}`, string(jj))

	back := JSONFieldTester{}
	require.NoError(t, json.Unmarshal(jj, &back))
	require.Equal(t, rec.Parts.Data, back.Parts.Data)

	// Scanning a NULL produces the zero value
	f := MakeJSONField(partsList{Names: []string{"x"}})
	require.NoError(t, f.Scan(nil))
	require.Equal(t, partsList{}, f.Data)
}
