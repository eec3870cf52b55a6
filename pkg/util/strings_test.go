package util

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	cases := map[string][]string{
		"":                            {},
		" , ,":                        {},
		"AutoRegressive":              {"AutoRegressive"},
		" a, b ,,c ":                  {"a", "b", "c"},
		"TrendSeasonal,trendseasonal": {"TrendSeasonal", "trendseasonal"},
	}
	for in, want := range cases {
		if got := SplitList(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("SplitList(%q) = %#v, want %#v", in, got, want)
		}
	}
}
