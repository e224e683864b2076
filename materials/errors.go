package materials

import "errors"

// The three failure kinds a materials call can report. All are terminal for
// the call: no retries, no partial materials. Wrapped causes are attached with
// fmt.Errorf("...: %w", ...), so callers match with errors.Is.
var (
	// ErrConfiguration reports an unsupported or malformed algorithm token,
	// or a key length that is invalid for the chosen algorithm.
	ErrConfiguration = errors.New("invalid materials configuration")

	// ErrMalformedMaterials reports a decrypt-side description that is
	// missing a required key or references a transform this provider cannot
	// perform.
	ErrMalformedMaterials = errors.New("malformed material description")

	// ErrCryptographicMaterials reports a failed wrap or unwrap. It is a
	// single opaque kind regardless of the underlying cause, so an attacker
	// who controls the description or ciphertext learns nothing about which
	// stage failed.
	ErrCryptographicMaterials = errors.New("cryptographic materials failure")
)
