package clearing

import "math"

const earthRadiusMiles = 3958.8

// haversineMiles computes great-circle distance between two lat/lng pairs
// in miles (§4.1 step 1 pre-filter and the location dimension).
func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1, rlat2 := deg2rad(lat1), deg2rad(lat2)
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}
