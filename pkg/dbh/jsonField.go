package dbh

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONField is a struct field that is stored in the database as JSON text.
// Inside Go, you interact with the Data member. To the JSON marshaller the
// field is transparent, so an API response sees Data inline.
type JSONField[T any] struct {
	Data T
}

func MakeJSONField[T any](data T) *JSONField[T] {
	return &JSONField[T]{Data: data}
}

func (j *JSONField[T]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		var empty T
		j.Data = empty
		return nil
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	case []byte:
		return json.Unmarshal(v, &j.Data)
	}
	return fmt.Errorf("Unable to scan %T into JSONField", src)
}

func (j JSONField[T]) Value() (driver.Value, error) {
	raw, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (j JSONField[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (j *JSONField[T]) UnmarshalJSON(raw []byte) error {
	return json.Unmarshal(raw, &j.Data)
}
