package materials

// Recognized material description keys. These form the wire contract: the
// decrypt side reads them byte-for-byte as the encrypt side wrote them.
const (
	// ContentKeyAlgorithm names the symmetric content key algorithm,
	// optionally suffixed with a key length, e.g. "AES" or "AES/128".
	ContentKeyAlgorithm = "content-key-alg"
	// KeyWrappingAlgorithm names the asymmetric transform used to wrap the
	// content key, e.g. "RSA-OAEP-SHA256".
	KeyWrappingAlgorithm = "key-wrapping-alg"
	// WrappedContentKey carries the wrapped content key bytes, standard
	// base64 encoded. It is written by the encrypt path so that the
	// description alone is enough to reverse the operation.
	WrappedContentKey = "wrapped-content-key"
)

// MaterialDescription is a string-keyed map of algorithm-selection metadata
// that is persisted alongside ciphertext. Keys are case-sensitive. Unknown
// keys pass through untouched.
type MaterialDescription map[string]string

// Clone returns an independent copy of the description.
func (d MaterialDescription) Clone() MaterialDescription {
	out := make(MaterialDescription, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// MergeDescriptions combines the provider's fixed entries with per-call
// entries from the encryption context. Per-call entries may add new keys, but
// fixed entries are authoritative: a per-call entry never overrides a key the
// provider has fixed, since fixed keys encode the provider's own operating
// parameters. Neither input map is mutated.
func MergeDescriptions(fixed, perCall MaterialDescription) MaterialDescription {
	merged := perCall.Clone()
	for k, v := range fixed {
		merged[k] = v
	}
	return merged
}
