package entity

// Quote is the normalized per-symbol retrieval result: the latest close from
// the daily time series combined with the company overview attributes.
type Quote struct {
	Symbol       string
	Overview     Overview
	LatestClose  float64
	Change52Week float64 // Fractional change vs. roughly one trading year ago
	BarCount     int     // Number of daily bars backing LatestClose
}
