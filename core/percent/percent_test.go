package percent

import (
	"testing"
)

func TestFromString(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Percent
	}{
		{"50%", 50},
		{" 12.6 % ", 13},
		{"150%", 100},
		{"-3", 0},
	} {
		p, err := FromString(tc.in)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.in, err)
		}
		if p != tc.want {
			t.Errorf("%q: expected %s, have %s", tc.in, tc.want, p)
		}
	}
	if _, err := FromString("abc%"); err == nil {
		t.Errorf("expected error for malformed percentage")
	}
	if Percent(25).Fraction() != 0.25 {
		t.Errorf("expected 25%% to be 0.25")
	}
}
