package materials

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"recordcrypt/record-encryption/metrics"
)

// CachingConfig bounds the decryption materials cache.
type CachingConfig struct {
	MaxCache int
	MaxAge   time.Duration
	MaxUses  int
}

const (
	defaultMaxCache = 100
	defaultMaxAge   = 5 * time.Minute
	defaultMaxUses  = 1000
)

// CachingMaterialsProvider wraps another provider and memoizes its decryption
// materials, keyed by the material description. Unwrapping is deterministic,
// so a cached result is exactly what the inner provider would recompute.
//
// Encryption materials are never cached: every record must get a fresh,
// independent content key, so encrypt-side calls always pass through.
type CachingMaterialsProvider struct {
	cache          *lru.Cache
	mutex          sync.RWMutex
	maxAge         time.Duration
	maxUses        int
	underlying     MaterialsProvider
	metricsHandler metrics.Handler
}

type cachedMaterials struct {
	materials *DecryptionMaterials
	createdAt time.Time
	uses      int
}

// NewCachingMaterialsProvider creates a caching decorator around the given
// provider. Zero config fields fall back to the package defaults.
func NewCachingMaterialsProvider(underlying MaterialsProvider, config CachingConfig, metricsHandler metrics.Handler) (*CachingMaterialsProvider, error) {
	if config.MaxCache <= 0 {
		config.MaxCache = defaultMaxCache
	}
	if config.MaxAge <= 0 {
		config.MaxAge = defaultMaxAge
	}
	if config.MaxUses <= 0 {
		config.MaxUses = defaultMaxUses
	}

	cache, err := lru.New(config.MaxCache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %v", err)
	}

	if metricsHandler == nil {
		metricsHandler = metrics.NopHandler
	}

	return &CachingMaterialsProvider{
		cache:          cache,
		maxAge:         config.MaxAge,
		maxUses:        config.MaxUses,
		underlying:     underlying,
		metricsHandler: metricsHandler,
	}, nil
}

// GetEncryptionMaterials always delegates to the underlying provider so that
// content keys stay fresh per record.
func (c *CachingMaterialsProvider) GetEncryptionMaterials(ctx context.Context, ec EncryptionContext) (*EncryptionMaterials, error) {
	start := time.Now()
	c.metricsHandler.Counter(metrics.ProviderGetRequests).Inc(1)
	materials, err := c.underlying.GetEncryptionMaterials(ctx, ec)
	c.metricsHandler.Timer(metrics.ProviderGetLatency).Record(time.Since(start))
	if err != nil {
		c.metricsHandler.Counter(metrics.ProviderGetErrors).Inc(1)
		return nil, err
	}
	return materials, nil
}

// GetDecryptionMaterials returns cached materials for a previously seen
// description, refetching once the entry ages out or exceeds its use budget.
func (c *CachingMaterialsProvider) GetDecryptionMaterials(ctx context.Context, ec EncryptionContext) (*DecryptionMaterials, error) {
	cacheKey := decryptionCacheKey(ec.MaterialDescription)

	c.mutex.RLock()
	cachedValue, found := c.cache.Get(cacheKey)
	c.mutex.RUnlock()

	if found {
		entry := cachedValue.(*cachedMaterials)

		c.mutex.Lock()
		if c.isEntryValid(entry) {
			entry.uses++
			c.mutex.Unlock()
			c.metricsHandler.Counter(metrics.ProviderDecryptHits).Inc(1)
			return entry.materials, nil
		}
		c.cache.Remove(cacheKey)
		c.mutex.Unlock()
	}

	start := time.Now()
	c.metricsHandler.Counter(metrics.ProviderDecryptRequests).Inc(1)
	materials, err := c.underlying.GetDecryptionMaterials(ctx, ec)
	c.metricsHandler.Timer(metrics.ProviderDecryptLatency).Record(time.Since(start))
	if err != nil {
		c.metricsHandler.Counter(metrics.ProviderDecryptErrors).Inc(1)
		return nil, err
	}

	c.mutex.Lock()
	c.cache.Add(cacheKey, &cachedMaterials{
		materials: materials,
		createdAt: time.Now(),
		uses:      1,
	})
	c.mutex.Unlock()

	return materials, nil
}

// Refresh drops every cached entry and refreshes the underlying provider.
func (c *CachingMaterialsProvider) Refresh() {
	c.mutex.Lock()
	c.cache.Purge()
	c.mutex.Unlock()

	c.underlying.Refresh()
}

func (c *CachingMaterialsProvider) isEntryValid(entry *cachedMaterials) bool {
	if time.Since(entry.createdAt) > c.maxAge {
		return false
	}
	if entry.uses >= c.maxUses {
		return false
	}
	return true
}

// decryptionCacheKey hashes the full description, wrapped key included, so
// two records wrapped under different keys never collide.
func decryptionCacheKey(description MaterialDescription) string {
	keys := make([]string, 0, len(description))
	for k := range description {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{':'})
		h.Write([]byte(description[k]))
		h.Write([]byte{';'})
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}
