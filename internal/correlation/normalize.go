package correlation

import "strings"

const (
	// Marker where volatile SAS query parameters begin in storage URIs.
	// Everything from the marker onward is stripped before grouping.
	sasMarker = "?sv"

	// Hard cap on the normalized operation key length.
	maxOperationKeyLen = 200
)

// NormalizeOperation canonicalizes an operation URI for grouping: the
// volatile query suffix starting at the SAS marker is cut, then the
// remainder is truncated to the length cap. Deterministic and
// side-effect free.
func NormalizeOperation(uri string) string {
	if i := strings.Index(uri, sasMarker); i >= 0 {
		uri = uri[:i]
	}
	if len(uri) > maxOperationKeyLen {
		uri = uri[:maxOperationKeyLen]
	}
	return uri
}
