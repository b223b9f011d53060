package aptscan

// FingerprintPolicy selects which listing fields make up the dedup
// identity. Two policies exist because the same unit can legitimately be
// identified either by where it was found (its URL) or by what it is
// (address, rooms, rent); which one is "correct" depends on whether a site
// surfaces one unit under multiple URLs.
type FingerprintPolicy string

const (
	// FingerprintURL keys on URL + unit + address. Default.
	FingerprintURL FingerprintPolicy = "url"

	// FingerprintUnit keys on normalized address + beds + baths + rent,
	// collapsing the same unit found via different URLs.
	FingerprintUnit FingerprintPolicy = "unit"
)

// Valid reports whether p names a known policy.
func (p FingerprintPolicy) Valid() bool {
	return p == FingerprintURL || p == FingerprintUnit
}
