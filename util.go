package main

import (
	"crypto/rand"
	"fmt"
	"math"
)

// GenerateUUID returns a random v4-style UUID string
func GenerateUUID() string {
	b := make([]byte, 16)
	rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampInt restricts v to [min, max]
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Sanitize replaces NaN/Inf with a fallback so malformed numeric input
// never reaches the physics formulas
func Sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// round1 rounds to one decimal place to shrink broadcast payloads
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
