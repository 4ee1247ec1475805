package validation

// Request body ceilings, enforced before JSON decoding. Oversized payloads
// are rejected with 413. Field-level length bounds live in the request
// structs' validate tags.
const (
	// MaxApplicationBodySize bounds application submissions (4 KB).
	MaxApplicationBodySize = 4 * 1024

	// MaxLoginBodySize bounds login payloads (512 bytes).
	MaxLoginBodySize = 512

	// MaxCreateInstanceBodySize bounds instance-creation payloads, which
	// should be empty anyway (256 bytes).
	MaxCreateInstanceBodySize = 256
)
