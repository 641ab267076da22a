package slug

import "testing"

func TestFromName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ada's Birthday", "ada-s-birthday"},
		{"  Summer Picnic 2026  ", "summer-picnic-2026"},
		{"ALL CAPS", "all-caps"},
		{"---", "event"},
		{"", "event"},
		{"çay & börek", "ay-b-rek"},
	}

	for _, tt := range tests {
		if got := FromName(tt.in); got != tt.want {
			t.Errorf("FromName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
