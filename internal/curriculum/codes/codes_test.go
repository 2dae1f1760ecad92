package codes

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "high_school_band", in: "HSLS1.A", want: "HS-LS1.A"},
		{name: "middle_school_band", in: "MSPS2", want: "MS-PS2"},
		{name: "single_grade", in: "3ESS2.C", want: "3-ESS2.C"},
		{name: "kindergarten", in: "KPS2.A", want: "K-PS2.A"},
		{name: "two_digit_grade", in: "10ETS1", want: "10-ETS1"},
		{name: "already_hyphenated", in: "MS-PS2.B", want: "MS-PS2.B"},
		{name: "already_hyphenated_grade", in: "5-LS1", want: "5-LS1"},
		{name: "lowercase_preserved", in: "hsls1.a", want: "hs-ls1.a"},
		{name: "surrounding_space_trimmed", in: " HSLS1.A ", want: "HS-LS1.A"},
		{name: "teks_untouched", in: "TEK.3.2", want: "TEK.3.2"},
		{name: "sol_untouched", in: "SOL 4.3", want: "SOL 4.3"},
		{name: "unknown_domain", in: "HSXX1", want: "HSXX1"},
		{name: "grade_thirteen", in: "13LS1", want: "13LS1"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, in := range []string{"HSLS1.A", "3ESS2.C", "TEK.3.2", "MS-PS2.B"} {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
