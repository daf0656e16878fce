package entity

// UnknownField is the sentinel used for overview attributes the provider
// did not return. Absent fields are never an error.
const UnknownField = "Unknown"

// Overview holds the normalized company/instrument attributes for a symbol.
// Numeric-looking attributes are kept as provider strings: the provider
// reports absent values as "None" or "-" and the presentation layer renders
// them verbatim.
type Overview struct {
	Name         string
	AssetType    string
	Sector       string
	Industry     string
	MarketCap    string
	PERatio      string
	Beta         string
	High52Week   string
	Low52Week    string
	MovingAvg50  string
	MovingAvg200 string
}
