package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const peopleShape = `
name:
  label: Full name
  type: text
age: number
team:
  type: single-choice
  options: [core, infra]
secret: false
notes: null
active: true
`

func TestShapeUnmarshalYAML(t *testing.T) {
	var s Shape
	require.NoError(t, yaml.Unmarshal([]byte(peopleShape), &s))

	require.Len(t, s.Fields, 6)
	assert.Equal(t, []string{"name", "age", "team", "active"}, s.Keys(), "falsy fields are skipped and order is kept")

	tests := []struct {
		name  string
		index int
		check func(t *testing.T, f ShapeField)
	}{
		{
			name:  "mapping config",
			index: 0,
			check: func(t *testing.T, f ShapeField) {
				require.NotNil(t, f.Config)
				assert.Equal(t, "Full name", f.Config.Label)
				assert.Equal(t, FieldText, f.Config.Type)
			},
		},
		{
			name:  "type shorthand",
			index: 1,
			check: func(t *testing.T, f ShapeField) {
				require.NotNil(t, f.Config)
				assert.Equal(t, FieldNumber, f.Config.Type)
			},
		},
		{
			name:  "alias type with options",
			index: 2,
			check: func(t *testing.T, f ShapeField) {
				require.NotNil(t, f.Config)
				assert.Equal(t, FieldSelect, f.Config.Type)
				assert.Equal(t, []string{"core", "infra"}, f.Config.Options)
			},
		},
		{
			name:  "false is falsy",
			index: 3,
			check: func(t *testing.T, f ShapeField) {
				assert.Equal(t, "secret", f.Key)
				assert.Nil(t, f.Config)
			},
		},
		{
			name:  "null is falsy",
			index: 4,
			check: func(t *testing.T, f ShapeField) {
				assert.Equal(t, "notes", f.Key)
				assert.Nil(t, f.Config)
			},
		},
		{
			name:  "true declares defaults",
			index: 5,
			check: func(t *testing.T, f ShapeField) {
				require.NotNil(t, f.Config)
				assert.Empty(t, f.Config.Label)
				assert.Nil(t, f.Config.Editable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, s.Fields[tt.index])
		})
	}
}

func TestShapeUnmarshalRejectsSequence(t *testing.T) {
	var s Shape
	err := yaml.Unmarshal([]byte("- name\n- age\n"), &s)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestShapeKeysDedupes(t *testing.T) {
	s := NewShape(
		Field("a", &ColumnConfig{}),
		Field("b", nil),
		Field("a", &ColumnConfig{Label: "again"}),
		Field("", &ColumnConfig{}),
	)
	assert.Equal(t, []string{"a"}, s.Keys())
}

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		in    string
		want  FieldType
		known bool
	}{
		{in: "", want: FieldText, known: true},
		{in: "Number", want: FieldNumber, known: true},
		{in: "multi-choice", want: FieldMultiSelect, known: true},
		{in: "url", want: FieldLink, known: true},
		{in: "rating", want: FieldType("rating")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseFieldType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, got.IsKnown())
		})
	}
	assert.True(t, FieldSelect.IsChoice())
	assert.False(t, FieldText.IsChoice())
}
