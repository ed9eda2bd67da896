package match

import (
	"testing"

	"github.com/maruel/jsondb/internal/jsonvalue"
)

func obj(s string) *jsonvalue.Object {
	return jsonvalue.MustParse(s).(*jsonvalue.Object)
}

func TestStrict(t *testing.T) {
	if !Strict(jsonvalue.MustParse(`{"a":[1,{"b":2}]}`), jsonvalue.MustParse(`{"a":[1,{"b":2}]}`)) {
		t.Error("Strict() = false for equal trees")
	}
	if Strict(jsonvalue.MustParse(`{"a":1}`), jsonvalue.MustParse(`{"a":1,"b":2}`)) {
		t.Error("Strict() = true for a subset")
	}
}

func TestSubset(t *testing.T) {
	bob := `{"name":"bob","age":12,"tags":["a","b"],"address":{"city":"x"}}`
	tests := []struct {
		name   string
		needle string
		want   bool
	}{
		{"single pair", `{"age":12}`, true},
		{"numeric equality", `{"age":12.0}`, true},
		{"two pairs", `{"name":"bob","age":12}`, true},
		{"whole entry", bob, true},
		{"empty needle", `{}`, true},
		{"wrong value", `{"age":13}`, false},
		{"missing key", `{"height":3}`, false},
		{"nested list", `{"tags":["a","b"]}`, true},
		{"nested mapping", `{"address":{"city":"x"}}`, true},
		{"nested partial mapping", `{"address":{}}`, false},
		{"needle not a mapping", `["age"]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Subset(jsonvalue.MustParse(tt.needle), obj(bob)); got != tt.want {
				t.Errorf("Subset(%s) = %v, want %v", tt.needle, got, tt.want)
			}
		})
	}
	if Subset(obj(`{}`), jsonvalue.MustParse(`[1]`)) {
		t.Error("Subset() with a list haystack = true, want false")
	}
}

func TestEntry(t *testing.T) {
	entry := obj(`{"name":"bob","age":12}`)
	if !Entry(obj(`{"age":12}`), entry, false) {
		t.Error("Entry(non strict) = false, want true")
	}
	if Entry(obj(`{"age":12}`), entry, true) {
		t.Error("Entry(strict) = true, want false")
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		target string
		source string
		opts   MergeOptions
		want   string
	}{
		{
			"lists merged without dupes",
			`{"tags":["a","b"]}`, `{"tags":["b","c"]}`,
			MergeOptions{MergeLists: true, NoDupes: true},
			`{"tags":["a","b","c"]}`,
		},
		{
			"lists merged with dupes",
			`{"tags":["a","b"]}`, `{"tags":["b","c"]}`,
			MergeOptions{MergeLists: true},
			`{"tags":["a","b","b","c"]}`,
		},
		{
			"lists replaced",
			`{"tags":["a","b"]}`, `{"tags":["c"]}`,
			MergeOptions{},
			`{"tags":["c"]}`,
		},
		{
			"recursive",
			`{"a":{"x":1,"y":{"z":1}}}`, `{"a":{"y":{"w":2},"v":3}}`,
			MergeOptions{},
			`{"a":{"x":1,"y":{"z":1,"w":2},"v":3}}`,
		},
		{
			"skip empty",
			`{"a":"keep","b":1,"c":[1]}`, `{"a":"","b":0,"c":[],"d":null,"e":"new"}`,
			MergeOptions{SkipEmpty: true},
			`{"a":"keep","b":1,"c":[1],"e":"new"}`,
		},
		{
			"empty overwrites by default",
			`{"a":"keep"}`, `{"a":""}`,
			MergeOptions{},
			`{"a":""}`,
		},
		{
			"new only",
			`{"a":1,"n":{"x":1}}`, `{"a":2,"b":3,"n":{"x":2,"y":2}}`,
			MergeOptions{NewOnly: true},
			`{"a":1,"n":{"x":1,"y":2},"b":3}`,
		},
		{
			"type change replaces",
			`{"a":{"x":1}}`, `{"a":[1]}`,
			MergeOptions{MergeLists: true},
			`{"a":[1]}`,
		},
		{
			"storage defaults",
			`{"t":[{"id":1}],"name":"x"}`, `{"t":[{"id":1},{"id":2}],"name":""}`,
			StorageMergeDefaults,
			`{"t":[{"id":1},{"id":2}],"name":"x"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := obj(tt.target)
			got := Merge(target, obj(tt.source), tt.opts)
			if got != target {
				t.Error("Merge() did not return its target")
			}
			if s := jsonvalue.Compact(got); s != tt.want {
				t.Errorf("Merge() = %s, want %s", s, tt.want)
			}
		})
	}

	t.Run("source not shared", func(t *testing.T) {
		source := obj(`{"n":{"x":[1]}}`)
		target := Merge(obj(`{}`), source, MergeOptions{})
		n, _ := target.Get("n")
		n.(*jsonvalue.Object).Set("x", "changed")
		if s := jsonvalue.Compact(source); s != `{"n":{"x":[1]}}` {
			t.Errorf("Merge() shares values with its source: %s", s)
		}
	})
}
