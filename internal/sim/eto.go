package sim

import "math"

// radiationToMM converts shortwave radiation in MJ/m²/day to an equivalent
// depth of evaporated water in mm (latent heat of vaporization).
const radiationToMM = 0.408

// ETo computes daily reference evapotranspiration in mm using the Hargreaves
// method. The temperature range is clamped to zero before the square root so
// a day with tmin > tmax (bad data) yields 0 rather than NaN.
func ETo(tmaxC, tminC, solarMJ float64) float64 {
	tavg := (tmaxC + tminC) / 2
	trange := math.Max(tmaxC-tminC, 0)
	ra := solarMJ * radiationToMM

	eto := 0.0023 * (tavg + 17.8) * math.Sqrt(trange) * ra
	return math.Max(eto, 0)
}
