package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Domain prefixes for content-addressed hashes.
// Version suffix enables future algorithm migration.
const (
	DomainSpec   = "dispatchgen/spec/v1"
	DomainOrder  = "dispatchgen/order/v1"
	DomainOutput = "dispatchgen/output/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes the content hash of the declarations a projection's
// generated code depends on: every event type plus the projection itself.
//
// Event declarations are hashed in name order, so reordering declarations
// across CUE files does not change the hash. Handler order is preserved;
// it is the input order the sorter receives.
func SpecHash(events []EventTypeDecl, proj ProjectionSpec) (string, error) {
	sorted := make([]EventTypeDecl, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	evs := make([]any, len(sorted))
	for i, d := range sorted {
		evs[i] = d
	}
	canonical, err := MarshalCanonical(map[string]any{
		"ir_version": IRVersion,
		"events":     evs,
		"projection": proj,
	})
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSpec, canonical), nil
}

// OrderHash computes the hash of an emission order given as type names.
func OrderHash(order []string) string {
	canonical, err := MarshalCanonical(order)
	if err != nil {
		// []string always marshals.
		panic(err)
	}
	return hashWithDomain(DomainOrder, canonical)
}

// OutputHash computes the hash of generated source.
func OutputHash(src []byte) string {
	return hashWithDomain(DomainOutput, src)
}
