package app

import "testing"

func TestParseMoneyMinor(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "500", want: 50000},
		{in: "500.00", want: 50000},
		{in: "500.5", want: 50050},
		{in: "0.07", want: 7},
		{in: " 12.34 ", want: 1234},
		{in: "-1.25", want: -125},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.234", wantErr: true},
		{in: "1.", wantErr: true},
	}

	for _, tc := range cases {
		got, err := parseMoneyMinor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parse %q: expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatMinor(t *testing.T) {
	cases := map[int64]string{
		50000:  "500.00",
		100000: "1000.00",
		7:      "0.07",
		-125:   "-1.25",
		0:      "0.00",
	}
	for minor, want := range cases {
		if got := formatMinor(minor); got != want {
			t.Fatalf("format %d: got %s, want %s", minor, got, want)
		}
	}
}
