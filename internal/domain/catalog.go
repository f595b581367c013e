package domain

// Amenity is one static catalog entry: a school, clinic or transport hub in
// Haifa with its location and contact details.
type Amenity struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Website string  `json:"website"`
}

// Catalog kinds.
const (
	AmenitySchools   = "schools"
	AmenityMedical   = "medical"
	AmenityTransport = "transport"
)

// The catalogs are compiled in and read-only for the process lifetime.
var SchoolCatalog = []Amenity{
	{
		Name: "בית ספר יסודי הדר", Type: "Elementary School",
		Lat: 32.805123, Lon: 34.985234,
		Address: "רחוב הרצל 15, הדר, חיפה",
		Phone:   "04-8234567", Website: "www.education.gov.il/hadar-elementary",
	},
	{
		Name: "בית ספר יסודי נורדאו", Type: "Elementary School",
		Lat: 32.812345, Lon: 34.991234,
		Address: "רחוב נורדאו 28, כרמל מרכז, חיפה",
		Phone:   "04-8345678", Website: "www.nordau-school.org.il",
	},
	{
		Name: "בית ספר יסודי גבעת האונס", Type: "Elementary School",
		Lat: 32.820567, Lon: 35.000123,
		Address: "רחוב האונס 42, גבעת האונס, חיפה",
		Phone:   "04-8456789", Website: "www.givat-haons-school.co.il",
	},
	{
		Name: "תיכון לאמנויות", Type: "Arts High School",
		Lat: 32.815678, Lon: 35.005789,
		Address: "רחוב הציונות 18, כרמל, חיפה",
		Phone:   "04-8567890", Website: "www.arts-highschool-haifa.org.il",
	},
	{
		Name: "תיכון רמב״ם", Type: "Academic High School",
		Lat: 32.800234, Lon: 34.995678,
		Address: "רחוב רמב״ם 33, הדר העליון, חיפה",
		Phone:   "04-8678901", Website: "www.rambam-high.edu.il",
	},
	{
		Name: "מקצועי מקס שיין", Type: "Vocational High School",
		Lat: 32.809876, Lon: 34.985432,
		Address: "רחוב מקס שיין 5, הדר, חיפה",
		Phone:   "04-8890123", Website: "www.max-shein-tech.org.il",
	},
}

var MedicalCatalog = []Amenity{
	{
		Name: "מכבי שירותי בריאות - הדר", Type: "General Clinic",
		Lat: 32.805000, Lon: 34.985000,
		Address: "רחוב הרצל 45, הדר, חיפה",
		Phone:   "04-8111222", Website: "www.maccabi4u.co.il",
	},
	{
		Name: "כללית - רמת ויזניץ", Type: "General Clinic",
		Lat: 32.785123, Lon: 34.995678,
		Address: "רחוב ויזניץ 12, רמת ויזניץ, חיפה",
		Phone:   "04-8222333", Website: "www.clalit.co.il",
	},
	{
		Name: "לאומית - נוה פז", Type: "General Clinic",
		Lat: 32.790000, Lon: 35.010000,
		Address: "רחוב פז 8, נוה פז, חיפה",
		Phone:   "04-8333444", Website: "www.leumit.co.il",
	},
	{
		Name: "קליניקה רפואית כרמל", Type: "Private Clinic",
		Lat: 32.812000, Lon: 34.995000,
		Address: "רחוב יפה נוף 14, כרמל, חיפה",
		Phone:   "04-8555666", Website: "www.carmel-clinic.co.il",
	},
}

var TransportCatalog = []Amenity{
	{
		Name: "תחנת אוטובוס מרכזית חיפה", Type: "Central Bus Station",
		Lat: 32.809876, Lon: 34.985432,
		Address: "רחוב יפו 142, הדר, חיפה",
		Phone:   "04-8666777", Website: "www.egged.co.il",
	},
	{
		Name: "רכבת ישראל - חיפה מרכז", Type: "Train Station",
		Lat: 32.815234, Lon: 34.999123,
		Address: "כיכר פלומר, כרמל מרכז, חיפה",
		Phone:   "04-8777888", Website: "www.rail.co.il",
	},
	{
		Name: "מטרונית - כרמלית", Type: "Underground Metro",
		Lat: 32.818901, Lon: 34.998234,
		Address: "כיכר פריס, כרמל מרכז, חיפה",
		Phone:   "04-8888999", Website: "www.carmelit.co.il",
	},
}

// CatalogFor returns the catalog for a kind, nil for unknown kinds.
func CatalogFor(kind string) []Amenity {
	switch kind {
	case AmenitySchools:
		return SchoolCatalog
	case AmenityMedical:
		return MedicalCatalog
	case AmenityTransport:
		return TransportCatalog
	}
	return nil
}
