package main

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
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

// randInt returns a random int in [min, max], both inclusive. Game
// randomness, not security-sensitive; the top-level math/rand source is
// safe for concurrent use across rooms and the driver.
func randInt(min, max int) int {
	return min + mrand.Intn(max-min+1)
}

var namePrefixes = []string{
	"Kepler", "Wasp", "TrES", "Delphini", "Tauri",
	"Cancri", "Pegasi", "Andromedae", "Gliese", "TRAPPIST",
}

var nameSuffixes = []string{"b", "c", "d", "e", "f", "1b", "2b", "3b"}

// RandomPilotName returns an exoplanet-style name like "Kepler-2b",
// assigned when a join request carries an empty name.
func RandomPilotName() string {
	prefix := namePrefixes[mrand.Intn(len(namePrefixes))]
	suffix := nameSuffixes[mrand.Intn(len(nameSuffixes))]
	return prefix + "-" + suffix
}
