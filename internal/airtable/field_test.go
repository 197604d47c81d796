package airtable

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantKind   Kind
		wantString string
	}{
		{name: "text", raw: `"Jane Doe"`, wantKind: KindText, wantString: "Jane Doe"},
		{name: "number", raw: `1234.5`, wantKind: KindNumber, wantString: "1234.5"},
		{name: "bool", raw: `true`, wantKind: KindBool, wantString: "true"},
		{name: "null", raw: `null`, wantKind: KindEmpty, wantString: ""},
		{name: "list", raw: `["Ann", "Bob"]`, wantKind: KindList, wantString: "Ann, Bob"},
		{name: "mixed list", raw: `["Ann", 5, {"name": "Cat"}, {"id": "x"}]`, wantKind: KindList, wantString: "Ann, 5, Cat"},
		{name: "object", raw: `{"a": 1}`, wantKind: KindEmpty, wantString: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &v))
			assert.Equal(t, tt.wantKind, v.Kind())
			assert.Equal(t, tt.wantString, v.String())
		})
	}
}

func TestValue_Strings(t *testing.T) {
	assert.Nil(t, Value{}.Strings())
	assert.Equal(t, []string{"a, b"}, Text("a, b").Strings())
	assert.Equal(t, []string{"a", "b"}, List("a", "b").Strings())
}

func TestValue_Truthy(t *testing.T) {
	assert.True(t, Bool(true).Truthy())
	assert.True(t, Text(" Yes ").Truthy())
	assert.True(t, Number(1).Truthy())
	assert.False(t, Text("no").Truthy())
	assert.False(t, Value{}.Truthy())
}

func TestValue_MarshalRoundTrip(t *testing.T) {
	rec := Record{ID: "rec1", Fields: Fields{
		"name":  Text("Ann"),
		"due":   Number(10),
		"kids":  List("A", "B"),
		"empty": {},
	}}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var got Record
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, rec.Fields["kids"], got.Fields["kids"])
	assert.Equal(t, rec.Fields["due"], got.Fields["due"])
	assert.True(t, got.Fields.Get("empty").IsEmpty())
	assert.True(t, got.Fields.Get("missing").IsEmpty())
}
