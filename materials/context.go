package materials

// EncryptionContext carries the per-call metadata the surrounding record
// encryption pipeline supplies with each materials request. On the encrypt
// path the description may be empty or pre-seeded with extra entries; on the
// decrypt path it must be exactly the description a prior encrypt call
// produced and the pipeline persisted alongside the ciphertext.
type EncryptionContext struct {
	MaterialDescription MaterialDescription
}
