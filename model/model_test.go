package model

import "testing"

func TestNormalizeBookCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"LIB001", "LIB001", true},
		{"lib001", "LIB001", true},
		{"  Lib1234  ", "LIB1234", true},
		{"", "", false},
		{"   ", "", false},
		{"LIB01", "LIB01", false},
		{"BOOK001", "BOOK001", false},
		{"LIB00A", "LIB00A", false},
	}
	for _, c := range cases {
		got, ok := NormalizeBookCode(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("NormalizeBookCode(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestNormalizeUSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1XX21CS001", "1XX21CS001", true},
		{" 1xx21cs001 ", "1XX21CS001", true},
		{"21CS001", "", false},
		{"1XX21CS01", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeUSN(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("NormalizeUSN(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory("Fiction") {
		t.Error("Fiction should be valid")
	}
	if ValidCategory("fiction") {
		t.Error("categories are case-sensitive")
	}
	if ValidCategory("") {
		t.Error("empty category should be invalid")
	}
}
