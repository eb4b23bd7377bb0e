package dreamlogs

import (
	"encoding/json"
	"testing"
)

func TestBoolIshAcceptsLooseEncodings(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`"true"`, true},
		{`"false"`, false},
		{`"1"`, true},
		{`"0"`, false},
		{`"yes"`, true},
		{`"no"`, false},
		{`"on"`, true},
		{`"off"`, false},
		{`" TRUE "`, true},
	}

	for _, tc := range cases {
		var b BoolIsh
		if err := json.Unmarshal([]byte(tc.in), &b); err != nil {
			t.Errorf("Unmarshal(%s) failed: %v", tc.in, err)
			continue
		}
		if bool(b) != tc.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tc.in, bool(b), tc.want)
		}
	}
}

func TestBoolIshRejectsGarbage(t *testing.T) {
	for _, in := range []string{`"maybe"`, `[]`, `{}`, `""`} {
		var b BoolIsh
		if err := json.Unmarshal([]byte(in), &b); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}
}

func TestParseDreamDate(t *testing.T) {
	for _, in := range []string{
		"2024-05-01T00:00:00Z",
		"2024-05-01T08:30:00",
		"2024-05-01",
		" 2024-05-01 ",
	} {
		if _, err := parseDreamDate(in); err != nil {
			t.Errorf("parseDreamDate(%q) failed: %v", in, err)
		}
	}

	for _, in := range []string{"", "yesterday", "01/05/2024"} {
		if _, err := parseDreamDate(in); err == nil {
			t.Errorf("parseDreamDate(%q) should fail", in)
		}
	}
}
