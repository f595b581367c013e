package app

import (
	"fmt"
	"strconv"
	"strings"

	"nadlan_mcp/internal/domain"
	"nadlan_mcp/internal/geo"
)

// NoResultsMessage is the single literal rendered when nothing matched.
const NoResultsMessage = "No properties found matching your criteria."

// Fallback query point (central Haifa) for listings without coordinates, so
// the amenity sections still render something sensible.
const (
	defaultLat = 32.8156
	defaultLon = 34.9892
)

// How many amenity entries each category sub-list shows.
var amenityListSize = map[string]int{
	domain.AmenitySchools:   5,
	domain.AmenityMedical:   4,
	domain.AmenityTransport: 3,
}

// DataPayload is the structured answer for data-mode queries: aggregates and
// raw records, no narrative prose.
type DataPayload struct {
	Summary      string                 `json:"summary"`
	AveragePrice int                    `json:"average_price"`
	PriceRange   string                 `json:"price_range"`
	Properties   []domain.ScoredListing `json:"properties"`
	TotalFound   int                    `json:"total_found"`
}

func BuildDataPayload(res domain.SearchResult) DataPayload {
	return DataPayload{
		Summary:      fmt.Sprintf("Found %d properties", len(res.Properties)),
		AveragePrice: res.Stats.AvgPrice,
		PriceRange:   fmt.Sprintf("%s - %s NIS", groupThousands(int64(res.Stats.MinPrice)), groupThousands(int64(res.Stats.MaxPrice))),
		Properties:   res.Properties,
		TotalFound:   res.TotalFound,
	}
}

// FormatListings renders the dense multi-section report for listings-mode
// results: header, market summary, per-property blocks with amenity proximity
// detail for every mentioned category, comparative analysis, and follow-up
// suggestions.
func FormatListings(res domain.SearchResult) string {
	if len(res.Properties) == 0 {
		return NoResultsMessage
	}

	var b report
	props := res.Properties
	mentioned := res.Intent.MentionedAmenities

	// Header with all active context.
	header := fmt.Sprintf("COMPREHENSIVE PROPERTY SEARCH - %d properties", len(props))
	if res.Request.MaxPrice > 0 {
		header += fmt.Sprintf(" under %s NIS", groupThousands(int64(res.Request.MaxPrice)))
	}
	if tf := transactionFilterValue(res.Filters); tf != "" {
		header += fmt.Sprintf(" (%s)", tf)
	}
	b.line(header)
	if len(mentioned) > 0 {
		b.line("Specialized search focus: %s proximity analysis", strings.Join(mentioned, ", "))
	}
	b.blank()

	b.line("MARKET ANALYSIS:")
	b.line("Average property price: %s NIS", groupThousands(int64(res.Stats.AvgPrice)))
	b.line("Average price per square meter: %s NIS/sqm", groupThousands(int64(pricePerSqm(float64(res.Stats.AvgPrice), res.Stats.AvgArea))))
	b.line("Full price range: %s to %s NIS", groupThousands(int64(res.Stats.MinPrice)), groupThousands(int64(res.Stats.MaxPrice)))
	b.blank()

	minScore, maxScore := props[0].MatchScore, props[0].MatchScore
	for _, p := range props {
		if p.MatchScore < minScore {
			minScore = p.MatchScore
		}
		if p.MatchScore > maxScore {
			maxScore = p.MatchScore
		}
	}
	b.line("Madlan Match Score Analysis: Range %.1f to %.1f out of 100 points", minScore, maxScore)
	b.blank()

	for i, p := range props {
		b.propertyBlock(i, p, mentioned)
		if i < len(props)-1 {
			b.line(strings.Repeat("=", 80))
			b.blank()
		}
	}

	b.comparative(res)
	b.suggestions(res)
	return b.String()
}

// report accumulates output lines.
type report struct{ lines []string }

func (b *report) line(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}
func (b *report) blank()         { b.lines = append(b.lines, "") }
func (b *report) String() string { return strings.Join(b.lines, "\n") }

func (b *report) propertyBlock(i int, p domain.ScoredListing, mentioned []string) {
	b.line("PROPERTY %d COMPLETE DETAILS:", i+1)
	b.line("Madlan match score: %.1f/100 (%s)", p.MatchScore, scoreLevel(p.MatchScore))
	b.blank()

	b.line("Complete address: %s, %s, Haifa", p.Street, p.Neighborhood)
	b.line("Property type and layout: %s, %s rooms, %d floors", p.PropertyType, trimFloat(p.Rooms), p.Floors)
	b.line("Built area: %s square meters", trimFloat(p.BuiltArea))
	b.line("Total price: %s NIS (%s)", groupThousands(int64(p.Price)), p.Transaction)
	b.line("Price per square meter: %s NIS/sqm", groupThousands(int64(pricePerSqm(p.Price, p.BuiltArea))))

	b.line("Complete feature inventory:")
	b.line("  Private parking: %s", pick(p.HasParking, "Available", "Not available"))
	b.line("  Elevator access: %s", pick(p.HasElevator, "Yes - building has elevator", "No - walk-up building"))
	b.line("  Balcony or terrace: %s", pick(p.HasBalcony, "Included", "No outdoor space"))
	b.line("Listing information: Published %s by %s", p.PublishDate, titleCase(p.SellerType))
	b.blank()

	lat, lon := defaultLat, defaultLon
	if p.Lat != nil && p.Lon != nil {
		lat, lon = *p.Lat, *p.Lon
	}

	for _, kind := range mentioned {
		b.amenitySection(kind, lat, lon)
	}

	b.line("NEIGHBORHOOD ANALYSIS FOR %s:", p.Neighborhood)
	b.line("Location characteristics: %s is an established neighborhood in Haifa", p.Neighborhood)
	for _, kind := range mentioned {
		switch kind {
		case domain.AmenitySchools:
			count, avg := neighborhoodCoverage(lat, lon, domain.SchoolCatalog)
			b.line("Educational environment: %d schools within 2km, average distance %.2fkm", count, avg)
		case domain.AmenityMedical:
			count, avg := neighborhoodCoverage(lat, lon, domain.MedicalCatalog)
			b.line("Healthcare access: %d medical facilities within 2km, average distance %.2fkm", count, avg)
		}
	}
	b.blank()
}

func (b *report) amenitySection(kind string, lat, lon float64) {
	var header, entryLabel, contactLabel string
	switch kind {
	case domain.AmenitySchools:
		header = "DETAILED SCHOOL PROXIMITY WITH PRECISE TRAVEL TIMES:"
		entryLabel = "School option"
		contactLabel = "School contact details"
	case domain.AmenityMedical:
		header = "DETAILED MEDICAL FACILITY PROXIMITY WITH PRECISE TRAVEL TIMES:"
		entryLabel = "Medical facility"
		contactLabel = "Medical facility contact"
	case domain.AmenityTransport:
		header = "DETAILED TRANSPORTATION ACCESS WITH PRECISE TRAVEL TIMES:"
		entryLabel = "Transportation hub"
		contactLabel = "Transportation contact"
	default:
		return
	}

	b.line(header)
	for j, a := range geo.KNearest(lat, lon, domain.CatalogFor(kind), amenityListSize[kind]) {
		b.line("%s %d: %s (%s)", entryLabel, j+1, a.Name, a.Type)
		b.line("  Complete address: %s", a.Address)
		b.line("  Precise distance: %.3f kilometers (%d meters)", a.DistanceKm, a.DistanceMeters)
		b.line("  Walking time with terrain: %d minutes", a.WalkMin)
		b.line("  Driving time with traffic: %d minutes", a.DriveMin)
		if kind != domain.AmenityTransport && a.TransitMin != nil {
			b.line("  Public transport time: %d minutes", *a.TransitMin)
		}
		b.line("  Accessibility assessment: %s", a.Accessibility)
		b.line("  %s: Phone %s, Website %s", contactLabel, a.Phone, a.Website)
		b.blank()
	}
}

func (b *report) comparative(res domain.SearchResult) {
	props := res.Properties

	b.line("COMPREHENSIVE COMPARATIVE ANALYSIS:")

	bestIdx, worstIdx := 0, 0
	bestPPS, worstPPS := comparativePPS(props[0]), comparativePPS(props[0])
	for i, p := range props {
		pps := comparativePPS(p)
		if pps < bestPPS {
			bestPPS, bestIdx = pps, i
		}
		if pps > worstPPS {
			worstPPS, worstIdx = pps, i
		}
	}
	b.line("Best value per square meter: Property %d at %s NIS/sqm", bestIdx+1, groupThousands(int64(bestPPS)))
	b.line("Highest price per square meter: Property %d at %s NIS/sqm", worstIdx+1, groupThousands(int64(worstPPS)))

	saleCount, letCount := 0, 0
	for _, p := range props {
		switch p.Transaction {
		case domain.ForSale:
			saleCount++
		case domain.ToLet:
			letCount++
		}
	}
	if saleCount > 0 && letCount > 0 {
		b.line("Transaction type breakdown: %d For Sale, %d To Let", saleCount, letCount)
	}

	if res.Intent.MentionsAmenity(domain.AmenitySchools) {
		idx, km := closestBy(props, func(p domain.ScoredListing) float64 { return p.NearestSchoolKm })
		b.line("Closest to schools: Property %d at %.3fkm (%d minutes walk including terrain)", idx+1, km, terrainWalkMin(km))
	}
	if res.Intent.MentionsAmenity(domain.AmenityMedical) {
		idx, km := closestBy(props, func(p domain.ScoredListing) float64 { return p.NearestClinicKm })
		b.line("Closest to medical facilities: Property %d at %.3fkm (%d minutes walk including terrain)", idx+1, km, terrainWalkMin(km))
	}

	parking, elevator, balcony := 0, 0, 0
	for _, p := range props {
		if p.HasParking {
			parking++
		}
		if p.HasElevator {
			elevator++
		}
		if p.HasBalcony {
			balcony++
		}
	}
	b.line("Feature availability across all properties:")
	b.line("  Properties with parking: %d out of %d", parking, len(props))
	b.line("  Properties with elevators: %d out of %d", elevator, len(props))
	b.line("  Properties with balconies: %d out of %d", balcony, len(props))
}

func (b *report) suggestions(res domain.SearchResult) {
	b.blank()
	b.line("FOLLOW-UP OPTIONS AND SUGGESTIONS:")
	b.line("Would you like me to:")
	for i, s := range Suggestions(res) {
		if i == 6 {
			break
		}
		b.line("%d. %s", i+1, s)
	}
	b.blank()
	b.line("Additional commands: Ask me to refine search criteria, compare specific properties, or analyze neighborhood trends.")
}

// Suggestions builds up to 8 follow-up options from a rule table keyed on the
// active transaction filter, the mentioned amenities and the result count.
func Suggestions(res domain.SearchResult) []string {
	var out []string

	var current domain.TransactionType
	for _, f := range res.Filters {
		if strings.Contains(f, string(domain.ForSale)) {
			current = domain.ForSale
		} else if strings.Contains(f, string(domain.ToLet)) {
			current = domain.ToLet
		}
	}
	switch current {
	case domain.ForSale:
		out = append(out, "Switch to rental properties (To Let) in the same area")
	case domain.ToLet:
		out = append(out, "Switch to properties for sale in the same area")
	default:
		out = append(out,
			"Filter by transaction type (For Sale vs To Let)",
			"Compare rental vs purchase options")
	}

	if res.Intent.MentionsAmenity(domain.AmenitySchools) {
		out = append(out,
			"Refine search by specific school distance (e.g., within 500m of a particular school)",
			"Filter by school type (elementary vs high school vs vocational)",
			"Show only properties near top-rated schools")
	}
	if res.Intent.MentionsAmenity(domain.AmenityMedical) {
		out = append(out,
			"Filter by health fund provider (Clalit, Maccabi, Leumit)",
			"Show properties near hospitals vs clinics",
			"Find properties near specialized medical centers")
	}
	if res.Intent.MentionsAmenity(domain.AmenityTransport) {
		out = append(out,
			"Focus on train station proximity vs bus access",
			"Show properties near multiple transport options")
	}

	if len(res.Properties) < 5 {
		out = append(out,
			"Expand budget range to see more options",
			"Include additional neighborhoods in search",
			"Reduce minimum room requirements")
	}
	if len(res.Properties) > 8 {
		out = append(out,
			"Narrow search with additional filters",
			"Focus on top 3 properties for detailed comparison")
	}

	out = append(out,
		"Sort results by different criteria (price, distance, area)",
		"Get detailed market analysis for this area",
		"Compare specific properties side-by-side",
		"Analyze neighborhood trends and pricing history",
		"Search in different neighborhoods with similar criteria")

	if len(out) > 8 {
		out = out[:8]
	}
	return out
}

// ---- helpers ----

func scoreLevel(score float64) string {
	switch {
	case score >= 80:
		return "Excellent Match"
	case score >= 70:
		return "Good Match"
	case score >= 50:
		return "Fair Match"
	default:
		return "Basic Match"
	}
}

func pricePerSqm(price, area float64) int {
	if area > 0 {
		return int(price / area)
	}
	return 0
}

// comparativePPS treats a missing area as 1 sqm so the listing still ranks
// (as worst value) instead of dividing by zero.
func comparativePPS(p domain.ScoredListing) int {
	area := p.BuiltArea
	if area <= 0 {
		area = 1
	}
	return int(p.Price / area)
}

// terrainWalkMin is the comparative-section walk estimate: floor at one
// minute plus the hill penalty, applied to cached nearest distances.
func terrainWalkMin(km float64) int {
	walk := int(km / 4.5 * 60)
	if walk < 1 {
		walk = 1
	}
	return walk + int(km*3)
}

// neighborhoodCoverage counts catalog entries within 2 km of the point and
// averages the three closest distances.
func neighborhoodCoverage(lat, lon float64, catalog []domain.Amenity) (int, float64) {
	ranked := geo.KNearest(lat, lon, catalog, 0)
	count := 0
	for _, a := range ranked {
		if a.DistanceKm <= 2.0 {
			count++
		}
	}
	var sum float64
	n := 3
	if len(ranked) < n {
		n = len(ranked)
	}
	for _, a := range ranked[:n] {
		sum += a.DistanceKm
	}
	if n == 0 {
		return count, 0
	}
	return count, sum / float64(n)
}

func closestBy(props []domain.ScoredListing, dist func(domain.ScoredListing) float64) (int, float64) {
	idx, best := 0, dist(props[0])
	for i, p := range props {
		if d := dist(p); d < best {
			best, idx = d, i
		}
	}
	return idx, best
}

// transactionFilterValue pulls the transaction type out of the first matching
// applied-filter description, e.g. "Auto-detected: To Let properties only".
func transactionFilterValue(filters []string) string {
	for _, f := range filters {
		if !strings.Contains(f, "Transaction type:") && !strings.Contains(f, "Auto-detected:") {
			continue
		}
		v := f
		if i := strings.Index(v, ": "); i >= 0 {
			v = v[i+2:]
		}
		if i := strings.Index(v, " properties"); i >= 0 {
			v = v[:i]
		}
		return v
	}
	return ""
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

func titleCase(s string) string {
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// groupThousands renders 1290000 as "1,290,000".
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg, s = true, s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
