// Package fingerprint gives an emitted Layout a short, deterministic,
// human-readable tag, the same way the teacher's pkg/seginfo names and
// parses segment files from their numeric components. A fingerprint has no
// semantic meaning beyond what its fields name — it exists for structured
// log lines and for naming golden-vector test fixtures, and its round trip
// (Generate then Parse) gives the determinism property (spec.md §8 P7)
// something concrete to assert on beyond raw struct equality.
//
// Format: latticemap_<segments>_<entriesPerSegment>_<chunkSize>.sig
package fingerprint

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	prefix    = "latticemap"
	extension = ".sig"
)

// ErrMalformed is returned by Parse when the input doesn't match the
// fingerprint format.
var ErrMalformed = fmt.Errorf("fingerprint: malformed tag, expected %s_<segments>_<entriesPerSegment>_<chunkSize>%s", prefix, extension)

// Generate builds the fingerprint tag for a layout with the given segment
// count, entries per segment, and chunk size.
func Generate(segments, entriesPerSegment, chunkSize int64) string {
	return fmt.Sprintf("%s_%d_%d_%d%s", prefix, segments, entriesPerSegment, chunkSize, extension)
}

// Parse extracts (segments, entriesPerSegment, chunkSize) from a fingerprint
// produced by Generate.
func Parse(tag string) (segments, entriesPerSegment, chunkSize int64, err error) {
	if !strings.HasPrefix(tag, prefix+"_") || !strings.HasSuffix(tag, extension) {
		return 0, 0, 0, ErrMalformed
	}

	body := strings.TrimSuffix(strings.TrimPrefix(tag, prefix+"_"), extension)
	parts := strings.Split(body, "_")
	if len(parts) != 3 {
		return 0, 0, 0, ErrMalformed
	}

	values := make([]int64, 3)
	for i, p := range parts {
		v, parseErr := strconv.ParseInt(p, 10, 64)
		if parseErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %v", ErrMalformed, parseErr)
		}
		values[i] = v
	}

	return values[0], values[1], values[2], nil
}
