// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRawRecord(t *testing.T) {
	fields := map[string]string{"Title": "X", "AUTHOR": "Doe, Jane"}
	r, err := NewRawRecord(" Doe20 ", " Article ", fields)
	require.NoError(t, err)

	assert.Equal(t, "Doe20", r.ID)
	assert.Equal(t, "article", r.EntryType)
	assert.Equal(t, []string{"author", "title"}, r.FieldNames())
	assert.Equal(t, "X", r.Value("title"))

	fields["title"] = "mutated"
	assert.Equal(t, "X", r.Value("title"), "fields must be copied")

	_, ok := r.Get("year")
	assert.False(t, ok)
}

func TestNewRawRecordErrors(t *testing.T) {
	_, err := NewRawRecord("", "article", nil)
	assert.Error(t, err)

	_, err = NewRawRecord("Doe20", " ", nil)
	assert.Error(t, err)
}

func TestRawRecordAuthors(t *testing.T) {
	tests := []struct {
		name   string
		author string
		want   []string
	}{
		{"single", "Doe, Jane", []string{"Doe, Jane"}},
		{"two", "Doe, Jane and Roe, Richard", []string{"Doe, Jane", "Roe, Richard"}},
		{"upper case and", "Doe, Jane AND Roe, Richard", []string{"Doe, Jane", "Roe, Richard"}},
		{"line break", "Doe, Jane\n  and Roe, Richard", []string{"Doe, Jane", "Roe, Richard"}},
		{"protected", "{Barnes and Noble} and Doe, Jane", []string{"{Barnes and Noble}", "Doe, Jane"}},
		{"and inside a name", "Anderson, Sandy and Alexander, Candace", []string{"Anderson, Sandy", "Alexander, Candace"}},
		{"non-ASCII", "Pérez, José and Øster, Åse", []string{"Pérez, José", "Øster, Åse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RawRecord{ID: "k", EntryType: "article", Fields: map[string]string{"author": tt.author}}
			assert.Equal(t, tt.want, r.Authors())
		})
	}

	assert.Nil(t, RawRecord{}.Authors())
}

func TestRawRecordJSONKeys(t *testing.T) {
	data, err := json.Marshal(RawRecord{ID: "k", EntryType: "misc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ID":"k","ENTRYTYPE":"misc","fields":null}`, string(data))
}

func TestSortKeywords(t *testing.T) {
	got := SortKeywords([]Keyword{
		{Category: "tools", Label: "tda"},
		{Category: "applications", Label: "images"},
		{Category: "tools", Label: "tda"},
		{Category: "applications", Label: "biology"},
	})
	assert.Equal(t, []Keyword{
		{Category: "applications", Label: "biology"},
		{Category: "applications", Label: "images"},
		{Category: "tools", Label: "tda"},
	}, got)
}

func TestTagFrequencies(t *testing.T) {
	f := make(TagFrequencies)
	f.Add("tools", "tda")
	f.Add("tools", "tda")
	f.Add("tools", "mapper")
	f.Add("data", "proteins")

	assert.Equal(t, []string{"data", "tools"}, f.Categories())
	assert.Equal(t, []TagCount{{Label: "mapper", Count: 1}, {Label: "tda", Count: 2}}, f.Sorted("tools"))
	assert.Empty(t, f.Sorted("flavour"))
}

func TestSortedKeepsDescendantsWithParent(t *testing.T) {
	f := TagFrequencies{"data": {"images": 1, "images0": 1, "images-x": 1, "images:3d": 2, "images:3d:mesh": 1}}
	var labels []string
	for _, tc := range f.Sorted("data") {
		labels = append(labels, tc.Label)
	}
	assert.Equal(t, []string{"images", "images:3d", "images:3d:mesh", "images-x", "images0"}, labels)
}

func TestCompareLabels(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"images", "images", 0},
		{"images", "images:3d", -1},
		{"images:3d", "images-x", -1},
		{"images:3d", "images0", -1},
		{"images:3d:mesh", "images:3d", 1},
		{"a:z", "b", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompareLabels(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestRenderKindText(t *testing.T) {
	data, err := json.Marshal([]RenderItem{Leaf("tda", 2), Descend, Ascend})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"kind":"leaf","label":"tda","count":2},{"kind":"descend"},{"kind":"ascend"}]`, string(data))
}
