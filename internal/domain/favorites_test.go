package domain_test

import (
	"slices"
	"testing"

	"github.com/neomorfeo/pango/internal/domain"
)

func TestToggle_AddsAbsent(t *testing.T) {
	s := domain.NewFavoriteSet("1")
	got := domain.Toggle(s, "2")

	if !got.Has("2") {
		t.Error("toggled set should contain 2")
	}
	if !got.Has("1") {
		t.Error("toggled set should keep 1")
	}
	if s.Has("2") {
		t.Error("input set was modified")
	}
}

func TestToggle_RemovesPresent(t *testing.T) {
	s := domain.NewFavoriteSet("1", "2")
	got := domain.Toggle(s, "1")

	if got.Has("1") {
		t.Error("toggled set should not contain 1")
	}
	if !s.Has("1") {
		t.Error("input set was modified")
	}
}

func TestToggle_NilSet(t *testing.T) {
	got := domain.Toggle(nil, "7")
	if !got.Has("7") || len(got) != 1 {
		t.Errorf("Toggle(nil, 7) = %v, want {7}", got.IDs())
	}
}

func TestToggle_Involution(t *testing.T) {
	sets := []domain.FavoriteSet{
		nil,
		domain.NewFavoriteSet(),
		domain.NewFavoriteSet("1"),
		domain.NewFavoriteSet("1", "2", "3"),
	}

	for _, s := range sets {
		for _, id := range []string{"1", "4"} {
			back := domain.Toggle(domain.Toggle(s, id), id)
			if !slices.Equal(back.IDs(), s.IDs()) {
				t.Errorf("Toggle twice with %q: got %v, want %v", id, back.IDs(), s.IDs())
			}
		}
	}
}

func TestToggle_Membership(t *testing.T) {
	sets := []domain.FavoriteSet{
		domain.NewFavoriteSet(),
		domain.NewFavoriteSet("1"),
		domain.NewFavoriteSet("2", "3"),
	}

	for _, s := range sets {
		for _, id := range []string{"1", "2", "9"} {
			if domain.Toggle(s, id).Has(id) == s.Has(id) {
				t.Errorf("membership of %q did not flip for %v", id, s.IDs())
			}
		}
	}
}

func TestFavoriteSet_IDsSorted(t *testing.T) {
	got := domain.NewFavoriteSet("c", "a", "b").IDs()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", got, want)
		}
	}
}
