package domain

import "math"

// BytesPerSample is the assumed size of one decoded sample (single precision).
const BytesPerSample = 4

// bandRates holds approximate samples per second keyed by channel band code.
var bandRates = map[byte]float64{
	'F': 1000.0,
	'G': 1000.0,
	'D': 500.0,
	'C': 250.0,
	'E': 100.0, // extremely short period
	'S': 40.0,  // short period
	'H': 100.0, // high broad band
	'B': 40.0,  // broad band
	'M': 5.0,   // mid period
	'L': 1.0,   // long period
	'V': 0.1,   // very long period
	'U': 0.01,  // ultra long period
	'R': 0.0003,
	'P': 0.001,
	'T': 0.001,
	'Q': 0.05,
	'A': 1.0, // administrative
	'O': 1.0, // opaque
	'W': 1.0, // wind and pressure
}

// SamplesPerSecond returns the nominal sample rate for a band code.
// Unknown band codes default to 1 sample per second.
func SamplesPerSecond(band byte) float64 {
	if sps, ok := bandRates[band]; ok {
		return sps
	}
	return 1.0
}

// Estimate returns the approximate number of bytes for a channel with the
// given band code recorded over seconds. Negative durations count as zero.
func Estimate(band byte, seconds float64) int64 {
	if seconds <= 0 {
		return 0
	}
	return int64(math.Ceil(SamplesPerSecond(band)*seconds)) * BytesPerSample
}

// BandCode returns the first character of a channel code, or 0 if empty.
func BandCode(channel string) byte {
	if channel == "" {
		return 0
	}
	return channel[0]
}
