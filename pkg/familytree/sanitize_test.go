package familytree

import (
	"reflect"
	"testing"
)

func strp(s string) *string { return &s }

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"Nil", nil, nil},
		{"Blank", strp(""), nil},
		{"Whitespace", strp("   "), nil},
		{"Valid", strp("1912-06-23"), strp("1912-06-23")},
		{"ValidPadded", strp("  1912-06-23 "), strp("1912-06-23")},
		{"NotADate", strp("unknown"), nil},
		{"WrongLayout", strp("23/06/1912"), nil},
		{"ImpossibleDay", strp("2000-02-31"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("got %q, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("got nil, want %q", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("got %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestSanitizePerson(t *testing.T) {
	p := Person{
		ID:        "x",
		BirthDate: strp(" 1900-01-01 "),
		DeathDate: strp("not a date"),
		Parents:   []string{"a", "b", "a", "c", "b"},
		Children:  []string{"d", "d"},
		Partnerships: []Partnership{
			{SpouseID: "a", UnionID: "u1", MarriageDate: strp("1925-05-05")},
			{SpouseID: "b", UnionID: "u2"},
			{SpouseID: "c", UnionID: "u1", MarriageDate: strp(" ")},
		},
	}

	got := SanitizePerson(p)

	if got.BirthDate == nil || *got.BirthDate != "1900-01-01" {
		t.Errorf("BirthDate = %v, want 1900-01-01", got.BirthDate)
	}
	if got.DeathDate != nil {
		t.Errorf("DeathDate = %q, want nil", *got.DeathDate)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got.Parents, want) {
		t.Errorf("Parents = %v, want %v", got.Parents, want)
	}
	if want := []string{"d"}; !reflect.DeepEqual(got.Children, want) {
		t.Errorf("Children = %v, want %v", got.Children, want)
	}

	if len(got.Partnerships) != 2 {
		t.Fatalf("Partnerships = %d entries, want 2", len(got.Partnerships))
	}
	// Last write wins for u1: all fields replaced, position of first entry kept.
	if got.Partnerships[0].UnionID != "u1" || got.Partnerships[0].SpouseID != "c" {
		t.Errorf("Partnerships[0] = %+v, want union u1 with spouse c", got.Partnerships[0])
	}
	if got.Partnerships[0].MarriageDate != nil {
		t.Errorf("Partnerships[0].MarriageDate = %v, want nil", got.Partnerships[0].MarriageDate)
	}
	if got.Partnerships[1].UnionID != "u2" {
		t.Errorf("Partnerships[1] = %+v, want union u2", got.Partnerships[1])
	}

	// Input untouched.
	if len(p.Parents) != 5 {
		t.Error("SanitizePerson modified its input")
	}
}
