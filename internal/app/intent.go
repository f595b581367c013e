package app

import (
	"strings"

	"nadlan_mcp/internal/domain"
)

// Intent detection is plain keyword membership over the tables below. The
// tables are data: extending a synonym list must not touch the control flow.

var listingIndicators = []string{
	"show me", "find me", "list", "properties", "apartments", "flats",
	"top", "best", "recommendations", "options", "listings",
	"search for", "looking for", "want to see",
}

var dataIndicators = []string{
	"analyze", "analysis", "statistics", "stats", "average", "compare",
	"market data", "trends", "price analysis", "how many", "count",
	"overview", "summary", "what is", "tell me about",
}

// Amenity keyword lists cover English and Hebrew synonyms. Order is
// significant: it fixes the order of the mentioned-amenities list.
var amenityKeywords = []struct {
	kind     string
	keywords []string
}{
	{domain.AmenitySchools, []string{
		"school", "schools", "education", "elementary", "high school",
		"kindergarten", "בית ספר", "תיכון", "חינוך",
	}},
	{domain.AmenityMedical, []string{
		"medical", "clinic", "hospital", "doctor", "health", "healthcare",
		"maccabi", "clalit", "leumit", "מכבי", "כללית", "לאומית", "רופא", "קליניקה",
	}},
	{domain.AmenityTransport, []string{
		"transport", "transportation", "bus", "train", "metro", "carmelit",
		"station", "public transport", "תחבורה", "אוטובוס", "רכבת",
	}},
}

// For-sale keywords are tested before to-let keywords; the first set that
// matches wins.
var forSaleKeywords = []string{
	"for sale", "buy", "purchase", "buying", "sale", "למכירה", "קנייה",
}

var toLetKeywords = []string{
	"to let", "rent", "rental", "renting", "lease", "להשכרה", "השכרה", "שכירות",
}

// ClassifyIntent infers the caller's goal from the free-text query and the
// explicit proximity flags: output shape (ranked listings vs. aggregate data),
// relevant amenity categories, and any implied transaction type.
func ClassifyIntent(req domain.SearchRequest) domain.Intent {
	query := strings.ToLower(req.QueryText)

	in := domain.Intent{
		IsListingQuery: containsAny(query, listingIndicators),
		IsDataQuery:    containsAny(query, dataIndicators),
	}

	for _, cat := range amenityKeywords {
		if containsAny(query, cat.keywords) {
			in.MentionedAmenities = append(in.MentionedAmenities, cat.kind)
		}
	}

	switch {
	case containsAny(query, forSaleKeywords):
		in.DetectedTransaction = domain.ForSale
	case containsAny(query, toLetKeywords):
		in.DetectedTransaction = domain.ToLet
	}

	// Explicit flags count as amenity mentions even without a keyword.
	if req.NearSchools && !in.MentionsAmenity(domain.AmenitySchools) {
		in.MentionedAmenities = append(in.MentionedAmenities, domain.AmenitySchools)
	}
	if req.NearMedical && !in.MentionsAmenity(domain.AmenityMedical) {
		in.MentionedAmenities = append(in.MentionedAmenities, domain.AmenityMedical)
	}

	// Listing intent always wins over data intent; data mode only applies to a
	// pure statistics question with no amenity angle.
	if in.IsDataQuery && !in.IsListingQuery && len(in.MentionedAmenities) == 0 {
		in.FormatMode = "data"
	} else {
		in.FormatMode = "listings"
	}
	return in
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
