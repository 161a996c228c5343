package whatsapp

// Carrier-inserted mobile prefixes that must collapse to the bare country
// code before the number is used as a store key or message recipient.
var mobilePrefixes = map[string]string{
	"521": "52",
	"549": "54",
}

// NormalizeWaID collapses a known 3-digit carrier prefix (e.g. 521 for
// Mexican mobiles) to its 2-digit country code. Any other id passes through
// unchanged.
func NormalizeWaID(id string) string {
	if len(id) < 3 {
		return id
	}
	if cc, ok := mobilePrefixes[id[:3]]; ok {
		return cc + id[3:]
	}
	return id
}
