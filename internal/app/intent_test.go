package app_test

import (
	"testing"

	"nadlan_mcp/internal/app"
	"nadlan_mcp/internal/domain"
)

func classify(text string) domain.Intent {
	return app.ClassifyIntent(domain.SearchRequest{QueryText: text})
}

func TestClassifyIntentFormatMode(t *testing.T) {
	cases := []struct {
		text string
		mode string
	}{
		{"Show me apartments under 2M", "listings"},
		{"find me the best options", "listings"},
		{"analyze average prices in Hadar", "data"},
		{"how many rentals are there", "data"},
		// listing indicator beats data indicator
		{"analyze the top listings", "listings"},
		// amenity mention blocks data mode even without a listing indicator
		{"average distance to schools", "listings"},
		// nothing matched: listings is the safe default
		{"", "listings"},
		{"something unrelated", "listings"},
	}
	for _, c := range cases {
		if got := classify(c.text); got.FormatMode != c.mode {
			t.Errorf("%q: format mode %q, want %q", c.text, got.FormatMode, c.mode)
		}
	}
}

func TestClassifyIntentAmenities(t *testing.T) {
	in := classify("flats near a school and a clinic, close to the train")
	for _, want := range []string{"schools", "medical", "transport"} {
		if !in.MentionsAmenity(want) {
			t.Errorf("expected %s to be mentioned, got %v", want, in.MentionedAmenities)
		}
	}

	// Hebrew synonyms count too
	in = classify("דירות ליד בית ספר")
	if !in.MentionsAmenity(domain.AmenitySchools) {
		t.Errorf("hebrew school keyword not detected: %v", in.MentionedAmenities)
	}

	if in := classify("just a flat"); len(in.MentionedAmenities) != 0 {
		t.Errorf("unexpected amenities: %v", in.MentionedAmenities)
	}
}

func TestClassifyIntentExplicitFlags(t *testing.T) {
	in := app.ClassifyIntent(domain.SearchRequest{NearMedical: true})
	if !in.MentionsAmenity(domain.AmenityMedical) {
		t.Fatalf("explicit near_medical flag should mark medical as mentioned")
	}
	// the flag must not duplicate a keyword match
	in = app.ClassifyIntent(domain.SearchRequest{QueryText: "near schools", NearSchools: true})
	count := 0
	for _, a := range in.MentionedAmenities {
		if a == domain.AmenitySchools {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("schools mentioned %d times, want 1", count)
	}
}

func TestClassifyIntentTransaction(t *testing.T) {
	cases := []struct {
		text string
		want domain.TransactionType
	}{
		{"apartments for sale in Hadar", domain.ForSale},
		{"looking to rent a flat", domain.ToLet},
		{"דירות להשכרה", domain.ToLet},
		{"למכירה בחיפה", domain.ForSale},
		// for-sale keywords are checked first, first match wins
		{"should I buy or rent", domain.ForSale},
		{"a nice flat with a view", ""},
	}
	for _, c := range cases {
		if got := classify(c.text); got.DetectedTransaction != c.want {
			t.Errorf("%q: transaction %q, want %q", c.text, got.DetectedTransaction, c.want)
		}
	}
}
