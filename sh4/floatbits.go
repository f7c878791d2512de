package sh4

import "math"

func bitsToFloat64(b uint64) float64 { return math.Float64frombits(b) }
func float64ToBits(f float64) uint64 { return math.Float64bits(f) }
