package domain_test

import (
	"testing"

	"github.com/neomorfeo/pango/internal/domain"
)

func intPtr(v int) *int       { return &v }
func pricePtr(v int64) *int64 { return &v }

// twoListings is the pair used by the search screen walkthrough.
func twoListings() []domain.Listing {
	return []domain.Listing{
		{
			ID:           "1",
			Title:        "Spacious 2 Bedroom Apartment",
			Location:     "Kinondoni, Dar es Salaam",
			Price:        450000,
			Beds:         intPtr(2),
			Baths:        intPtr(1),
			PropertyType: "Apartment",
		},
		{
			ID:           "2",
			Title:        "Modern Single Room",
			Location:     "Mikocheni B",
			Price:        150000,
			Beds:         intPtr(1),
			Baths:        intPtr(1),
			PropertyType: "Room",
		},
	}
}

func catalogue() []domain.Listing {
	return append(twoListings(),
		domain.Listing{ID: "3", Title: "Furnished 3 Bedroom House", Location: "Mbezi Beach, Dar es Salaam", Price: 750000, Beds: intPtr(3), Baths: intPtr(2), PropertyType: "House"},
		domain.Listing{ID: "4", Title: "Executive Studio Apartment", Location: "Msasani, Dar es Salaam", Price: 350000, Beds: intPtr(1), Baths: intPtr(1), PropertyType: "Apartment"},
		domain.Listing{ID: "5", Title: "Plot with Servant Quarter", Location: "Kijitonyama, Dar es Salaam", Price: 250000, PropertyType: "Studio"},
	)
}

func ids(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func assertIDs(t *testing.T, got []domain.Listing, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got ids %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got ids %v, want %v", gotIDs, want)
		}
	}
}

func TestEvaluate_EmptyCriteriaIsIdentity(t *testing.T) {
	all := catalogue()
	got := domain.Evaluate(all, domain.Criteria{})
	assertIDs(t, got, "1", "2", "3", "4", "5")
}

func TestEvaluate_EmptyInput(t *testing.T) {
	got := domain.Evaluate(nil, domain.Criteria{Query: "house"})
	if got == nil {
		t.Fatal("result should be an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("got %d listings, want 0", len(got))
	}
}

func TestEvaluate_PriceMax(t *testing.T) {
	got := domain.Evaluate(twoListings(), domain.Criteria{PriceMax: pricePtr(200000)})
	assertIDs(t, got, "2")
}

func TestEvaluate_PropertyTypeWithoutMatch(t *testing.T) {
	got := domain.Evaluate(twoListings(), domain.Criteria{PropertyTypes: []string{"House"}})
	if len(got) != 0 {
		t.Errorf("got ids %v, want none", ids(got))
	}
}

func TestEvaluate_MinBeds(t *testing.T) {
	got := domain.Evaluate(twoListings(), domain.Criteria{MinBeds: intPtr(2)})
	assertIDs(t, got, "1")
}

func TestEvaluate_MalformedPriceIsIgnored(t *testing.T) {
	c := domain.ParseCriteria(domain.RawCriteria{PriceMin: "abc"})
	got := domain.Evaluate(twoListings(), c)
	assertIDs(t, got, "1", "2")
}

func TestEvaluate_SubPredicates(t *testing.T) {
	cases := []struct {
		name string
		c    domain.Criteria
		want []string
	}{
		{"query matches title", domain.Criteria{Query: "studio"}, []string{"4"}},
		{"query matches location", domain.Criteria{Query: "MIKOCHENI"}, []string{"2"}},
		{"location substring", domain.Criteria{Location: "dar es salaam"}, []string{"1", "3", "4", "5"}},
		{"query and location combine", domain.Criteria{Query: "apartment", Location: "msasani"}, []string{"4"}},
		{"price min inclusive", domain.Criteria{PriceMin: pricePtr(450000)}, []string{"1", "3"}},
		{"price max inclusive", domain.Criteria{PriceMax: pricePtr(250000)}, []string{"2", "5"}},
		{"price range", domain.Criteria{PriceMin: pricePtr(200000), PriceMax: pricePtr(400000)}, []string{"4", "5"}},
		{"types are OR-ed", domain.Criteria{PropertyTypes: []string{"House", "Room"}}, []string{"2", "3"}},
		{"min baths", domain.Criteria{MinBaths: intPtr(2)}, []string{"3"}},
		{"unknown beds fail a minimum", domain.Criteria{MinBeds: intPtr(0)}, []string{"1", "2", "3", "4"}},
		{"nothing matches", domain.Criteria{Query: "penthouse"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertIDs(t, domain.Evaluate(catalogue(), tc.c), tc.want...)
		})
	}
}

func TestEvaluate_ResultSatisfiesCriteria(t *testing.T) {
	all := catalogue()
	criteria := []domain.Criteria{
		{Query: "bedroom"},
		{PriceMin: pricePtr(300000), MinBeds: intPtr(1)},
		{PropertyTypes: []string{"Apartment"}, MinBaths: intPtr(1)},
		{Location: "dar", PriceMax: pricePtr(500000)},
	}

	for _, c := range criteria {
		got := domain.Evaluate(all, c)
		// Each listing is judged on its own, so evaluating it alone must agree.
		for _, l := range all {
			alone := len(domain.Evaluate([]domain.Listing{l}, c)) == 1
			if alone != containsID(got, l.ID) {
				t.Errorf("listing %s: alone=%v, in batch=%v for %+v", l.ID, alone, !alone, c)
			}
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	c := domain.Criteria{Location: "dar es salaam", PriceMax: pricePtr(500000)}
	once := domain.Evaluate(catalogue(), c)
	twice := domain.Evaluate(once, c)
	assertIDs(t, twice, ids(once)...)
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	all := catalogue()
	before := ids(all)
	c := domain.Criteria{PropertyTypes: []string{"Room"}}

	domain.Evaluate(all, c)

	assertIDs(t, all, before...)
	if len(c.PropertyTypes) != 1 || c.PropertyTypes[0] != "Room" {
		t.Errorf("criteria modified: %+v", c)
	}
}

func TestEvaluate_ResetReturnsEverything(t *testing.T) {
	c := domain.Criteria{
		Query:         "apartment",
		PriceMax:      pricePtr(100),
		PropertyTypes: []string{"House"},
		MinBeds:       intPtr(4),
	}
	c.Reset()

	assertIDs(t, domain.Evaluate(catalogue(), c), "1", "2", "3", "4", "5")
}

func TestEvaluate_UnicodeCaseFolding(t *testing.T) {
	listings := []domain.Listing{{ID: "a", Title: "Nyumba ya KIJIJINI", Location: "Résidence ÉTOILE"}}

	if got := domain.Evaluate(listings, domain.Criteria{Query: "kijijini"}); len(got) != 1 {
		t.Errorf("title query: got %d listings, want 1", len(got))
	}
	if got := domain.Evaluate(listings, domain.Criteria{Location: "étoile"}); len(got) != 1 {
		t.Errorf("location query: got %d listings, want 1", len(got))
	}
}

func containsID(listings []domain.Listing, id string) bool {
	for _, l := range listings {
		if l.ID == id {
			return true
		}
	}
	return false
}
