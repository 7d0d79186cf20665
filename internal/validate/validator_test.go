package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Date  string `json:"date" validate:"datekey"`
	Level int    `mapstructure:"level" validate:"gte=1,lte=3"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sample{Name: "a", Date: "2026-02-28", Level: 2})
	assert.NoError(t, err)
}

func TestStruct_FieldsUseTagNames(t *testing.T) {
	err := Struct(sample{Date: "2026-02-30", Level: 9})
	require.Error(t, err)

	var fe *FieldsError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Fields, "name")
	assert.Contains(t, fe.Fields, "date")
	assert.Contains(t, fe.Fields, "level")
	assert.Equal(t, "date must be a YYYY-MM-DD date", fe.Fields["date"])
}

func TestFieldsError_StableMessage(t *testing.T) {
	fe := NewFieldsError(map[string]string{"b": "second", "a": "first"})
	assert.Equal(t, "invalid fields: first; second", fe.Error())
}
