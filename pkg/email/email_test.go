package email

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"jane@example.com", true},
		{"jane.doe+hiring@sub.example.co", true},
		{"  jane@example.com  ", true},
		{"jane", false},
		{"jane@", false},
		{"@example.com", false},
		{"jane@example", false},
		{"ja ne@example.com", false},
		{"jane@@example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Valid(tc.input); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestDeriveNameFromEmail(t *testing.T) {
	cases := []struct {
		email string
		first string
		last  string
	}{
		{"jane.doe@example.com", "Jane", "Doe"},
		{"jane_van-dam@example.com", "Jane", "Dam"},
		{"jane@example.com", "Jane", "User"},
		{"j@example.com", "J", "User"},
		{"@example.com", "User", "User"},
	}
	for _, tc := range cases {
		first, last := DeriveNameFromEmail(tc.email)
		if first != tc.first || last != tc.last {
			t.Errorf("DeriveNameFromEmail(%q) = (%q, %q), want (%q, %q)",
				tc.email, first, last, tc.first, tc.last)
		}
	}
}
