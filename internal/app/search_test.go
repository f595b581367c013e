package app_test

import (
	"strings"
	"testing"
	"time"

	"nadlan_mcp/internal/app"
	"nadlan_mcp/internal/domain"
)

// listing builds a fixture record published daysOld days ago.
func listing(street string, price, rooms, area float64, trans domain.TransactionType, schoolKm, clinicKm float64, daysOld int) domain.Listing {
	return domain.Listing{
		PublishDate:  time.Now().AddDate(0, 0, -daysOld).Format("2006-01-02"),
		SellerType:   "agent",
		Rooms:        rooms,
		Price:        price,
		Floors:       2,
		BuiltArea:    area,
		City:         "חיפה",
		Neighborhood: "הדר הכרמל",
		Street:       street,
		PropertyType: "FLAT",
		Transaction:  trans,

		NearestSchoolName: "בית ספר יסודי הדר",
		NearestSchoolKm:   schoolKm,
		NearestClinicName: "מכבי שירותי בריאות - הדר",
		NearestClinicKm:   clinicKm,
	}
}

func fixture() *domain.Dataset {
	return &domain.Dataset{Listings: []domain.Listing{
		listing("a", 900_000, 3, 70, domain.ForSale, 0.4, 0.5, 30),
		listing("b", 1_200_000, 4, 95, domain.ForSale, 1.2, 1.8, 60),
		listing("c", 1_800_000, 5, 130, domain.ForSale, 2.5, 2.4, 90),
		listing("d", 6_000, 3, 65, domain.ToLet, 0.9, 0.7, 10),
		listing("e", 9_500, 4.5, 110, domain.ToLet, 1.4, 1.1, 200),
	}}
}

func TestSearchPriceBounds(t *testing.T) {
	e := app.NewEngine(fixture())
	res := e.Search(domain.SearchRequest{MinPrice: 10_000, MaxPrice: 1_500_000})
	if len(res.Properties) == 0 {
		t.Fatal("expected results")
	}
	for _, p := range res.Properties {
		if p.Price < 10_000 || p.Price > 1_500_000 {
			t.Errorf("price %v outside bounds", p.Price)
		}
	}
	joined := strings.Join(res.Filters, "|")
	if !strings.Contains(joined, "Max price: 1,500,000 NIS") || !strings.Contains(joined, "Min price: 10,000 NIS") {
		t.Errorf("filter descriptions missing: %v", res.Filters)
	}
}

func TestSearchRoomMinimumFractional(t *testing.T) {
	e := app.NewEngine(fixture())
	res := e.Search(domain.SearchRequest{Rooms: 4.5})
	for _, p := range res.Properties {
		if p.Rooms < 4.5 {
			t.Errorf("rooms %v below minimum", p.Rooms)
		}
	}
	if len(res.Properties) != 2 {
		t.Fatalf("got %d results, want 2", len(res.Properties))
	}
}

func TestSearchProximityFilters(t *testing.T) {
	e := app.NewEngine(fixture())

	res := e.Search(domain.SearchRequest{NearSchools: true})
	for _, p := range res.Properties {
		if p.NearestSchoolKm > 1.5 {
			t.Errorf("school distance %v beyond 1.5km", p.NearestSchoolKm)
		}
	}

	res = e.Search(domain.SearchRequest{NearMedical: true})
	for _, p := range res.Properties {
		if p.NearestClinicKm > 2.0 {
			t.Errorf("clinic distance %v beyond 2km", p.NearestClinicKm)
		}
	}
}

func TestSearchFeatureRequirements(t *testing.T) {
	ds := fixture()
	ds.Listings[0].HasParking = true
	ds.Listings[0].HasElevator = true
	ds.Listings[1].HasParking = true

	e := app.NewEngine(ds)
	res := e.Search(domain.SearchRequest{HasParking: true, HasElevator: true})
	if len(res.Properties) != 1 || res.Properties[0].Street != "a" {
		t.Fatalf("got %+v, want only listing a", res.Properties)
	}
}

func TestSearchInferredTransaction(t *testing.T) {
	e := app.NewEngine(fixture())
	res := e.Search(domain.SearchRequest{QueryText: "find me a flat to rent"})
	if len(res.Properties) == 0 {
		t.Fatal("expected results")
	}
	for _, p := range res.Properties {
		if p.Transaction != domain.ToLet {
			t.Errorf("got %s listing, want To Let only", p.Transaction)
		}
	}
	if !containsFilter(res.Filters, "Auto-detected: To Let properties only") {
		t.Errorf("auto-detect description missing: %v", res.Filters)
	}
}

func TestSearchExplicitOverridesInferred(t *testing.T) {
	e := app.NewEngine(fixture())
	// free text implies rental, explicit filter says sale: explicit wins
	res := e.Search(domain.SearchRequest{QueryText: "find me a flat to rent", Transaction: "For Sale"})
	if len(res.Properties) == 0 {
		t.Fatal("expected results")
	}
	for _, p := range res.Properties {
		if p.Transaction != domain.ForSale {
			t.Errorf("got %s listing, want For Sale only", p.Transaction)
		}
	}
	if !containsFilter(res.Filters, "Transaction type: For Sale") {
		t.Errorf("explicit description missing: %v", res.Filters)
	}
	for _, f := range res.Filters {
		if strings.Contains(f, "Auto-detected") {
			t.Errorf("inferred filter applied alongside explicit: %v", res.Filters)
		}
	}
}

func TestSearchScoreRangeAndDominance(t *testing.T) {
	// listing "best" is strictly cheaper, larger, newer and fully featured
	best := listing("best", 500_000, 4, 150, domain.ForSale, 0.3, 0.4, 1)
	best.HasParking, best.HasElevator, best.HasBalcony = true, true, true
	ds := &domain.Dataset{Listings: []domain.Listing{
		listing("x", 900_000, 3, 70, domain.ForSale, 0.4, 0.5, 100),
		best,
		listing("y", 1_200_000, 4, 95, domain.ForSale, 1.2, 1.8, 300),
	}}

	res := app.NewEngine(ds).Search(domain.SearchRequest{})
	maxScore := 0.0
	for _, p := range res.Properties {
		if p.MatchScore < 0 || p.MatchScore > 100 {
			t.Errorf("score %v outside [0,100]", p.MatchScore)
		}
		if p.MatchScore > maxScore {
			maxScore = p.MatchScore
		}
	}
	if res.Properties[0].Street != "best" {
		t.Fatalf("top result is %q, want the dominant listing", res.Properties[0].Street)
	}
	if res.Properties[0].MatchScore != maxScore {
		t.Fatalf("dominant listing score %v is not the pool maximum %v", res.Properties[0].MatchScore, maxScore)
	}
}

func TestSearchStableOrderOnTies(t *testing.T) {
	// identical listings except for the street name: identical scores
	ds := &domain.Dataset{Listings: []domain.Listing{
		listing("first", 1_000_000, 3, 80, domain.ForSale, 0.5, 0.5, 20),
		listing("second", 1_000_000, 3, 80, domain.ForSale, 0.5, 0.5, 20),
		listing("third", 1_000_000, 3, 80, domain.ForSale, 0.5, 0.5, 20),
	}}
	res := app.NewEngine(ds).Search(domain.SearchRequest{})
	if len(res.Properties) != 3 {
		t.Fatalf("got %d results", len(res.Properties))
	}
	if res.Properties[0].MatchScore != res.Properties[1].MatchScore ||
		res.Properties[1].MatchScore != res.Properties[2].MatchScore {
		t.Fatalf("expected tied scores, got %+v", res.Properties)
	}
	for i, want := range []string{"first", "second", "third"} {
		if res.Properties[i].Street != want {
			t.Errorf("position %d: got %q, want %q (input order must be preserved)", i, res.Properties[i].Street, want)
		}
	}
}

func TestSearchLimitAndPageStats(t *testing.T) {
	e := app.NewEngine(fixture())
	res := e.Search(domain.SearchRequest{Transaction: "For Sale", Limit: 2})
	if len(res.Properties) != 2 || res.TotalFound != 2 {
		t.Fatalf("got %d properties, total %d, want 2/2", len(res.Properties), res.TotalFound)
	}
	// Aggregates are page-scoped: min/max must come from the two returned
	// records, not the three that survived filtering.
	lo, hi := res.Properties[0].Price, res.Properties[0].Price
	for _, p := range res.Properties {
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
	}
	if res.Stats.MinPrice != int(lo) || res.Stats.MaxPrice != int(hi) {
		t.Fatalf("stats %+v not scoped to the returned page [%v %v]", res.Stats, lo, hi)
	}
}

func TestSearchDefaultLimit(t *testing.T) {
	ds := &domain.Dataset{}
	for i := 0; i < 15; i++ {
		ds.Listings = append(ds.Listings, listing("s", 1_000_000+float64(i), 3, 80, domain.ForSale, 0.5, 0.5, 20))
	}
	res := app.NewEngine(ds).Search(domain.SearchRequest{})
	if len(res.Properties) != 10 {
		t.Fatalf("got %d results, want default limit 10", len(res.Properties))
	}
}

func TestSearchOversizedLimit(t *testing.T) {
	e := app.NewEngine(fixture())
	res := e.Search(domain.SearchRequest{Limit: 100000})
	if len(res.Properties) != 5 {
		t.Fatalf("got %d results, want the full pool of 5", len(res.Properties))
	}
}

func containsFilter(filters []string, want string) bool {
	for _, f := range filters {
		if f == want {
			return true
		}
	}
	return false
}
