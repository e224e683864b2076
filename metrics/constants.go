package metrics

const (
	DefaultPrometheusPath = "/metrics"

	RecordEncryptionPrefix = "record_encryption_"

	// Record cipher metrics
	EncryptLatency  = RecordEncryptionPrefix + "encrypt_latency"
	EncryptRequests = RecordEncryptionPrefix + "encrypt_requests"
	EncryptErrors   = RecordEncryptionPrefix + "encrypt_errors"
	DecryptLatency  = RecordEncryptionPrefix + "decrypt_latency"
	DecryptRequests = RecordEncryptionPrefix + "decrypt_requests"
	DecryptErrors   = RecordEncryptionPrefix + "decrypt_errors"

	// Materials provider encrypt-side metrics
	ProviderGetLatency  = RecordEncryptionPrefix + "provider_get_latency"
	ProviderGetRequests = RecordEncryptionPrefix + "provider_get_requests"
	ProviderGetErrors   = RecordEncryptionPrefix + "provider_get_errors"

	// Materials provider decrypt-side metrics
	ProviderDecryptLatency  = RecordEncryptionPrefix + "provider_decrypt_latency"
	ProviderDecryptRequests = RecordEncryptionPrefix + "provider_decrypt_requests"
	ProviderDecryptErrors   = RecordEncryptionPrefix + "provider_decrypt_errors"
	ProviderDecryptHits     = RecordEncryptionPrefix + "provider_decrypt_cache_hits"
)
