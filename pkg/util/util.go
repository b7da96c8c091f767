package util

import (
	"math"
)

// RoundFloat dipakai buat bulatkan jarak/durasi di response api.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
