package domain

type TransactionType string

const (
	ForSale TransactionType = "For Sale"
	ToLet   TransactionType = "To Let"
)

// SentinelDistanceKm marks "coordinates unavailable / far away" on derived
// proximity fields.
const SentinelDistanceKm = 999.0

// ClassifyTransaction derives the transaction type from the asking price:
// five-figure prices are rentals, anything from 100,000 up is a sale.
func ClassifyTransaction(price float64) TransactionType {
	if price < 100_000 {
		return ToLet
	}
	return ForSale
}

// Listing is one property entry. Immutable after load; the nearest-* fields
// are computed once against the fixed amenity catalogs and cached here.
// JSON field names mirror the enriched CSV columns.
type Listing struct {
	PublishDate  string          `json:"publish_date"`
	SellerType   string          `json:"seller_type"` // agent|owner
	Rooms        float64         `json:"property_rooms"`
	Price        float64         `json:"property_price"`
	Floors       int             `json:"property_floors"`
	BuiltArea    float64         `json:"property_builded_area"`
	City         string          `json:"city"`
	Neighborhood string          `json:"neighbourhood"`
	Street       string          `json:"street"`
	PropertyType string          `json:"property_type"`
	Transaction  TransactionType `json:"transaction_type"`
	HasBalcony   bool            `json:"bulletin_has_balconies"`
	HasElevator  bool            `json:"bulletin_has_elevator"`
	HasParking   bool            `json:"bulletin_has_parking"`

	// nil when geocoding did not produce a location.
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`

	NearestSchoolName string  `json:"nearest_school_name"`
	NearestSchoolKm   float64 `json:"nearest_school_distance_km"`
	NearestClinicName string  `json:"nearest_clinic_name"`
	NearestClinicKm   float64 `json:"nearest_clinic_distance_km"`
}

// Dataset is the process-wide read-only table of listings. It is constructed
// once at startup and passed explicitly to the engine, never mutated.
type Dataset struct {
	Listings []Listing
}
