package repositories

import (
	"encoding/json"
	"log"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
	"github.com/shopspring/decimal"
)

// AvailabilityHint son los datos cacheados de las consultas de
// disponibilidad y precios. Son solo un hint para la capa de lectura:
// pueden quedar viejos respecto de admisiones en vuelo, por eso la
// admisión nunca los consulta.
type AvailabilityHint struct {
	Available bool                       `json:"available"`
	Prices    map[string]decimal.Decimal `json:"prices,omitempty"` // fecha ISO -> precio
}

// HintCacheRepository define la interfaz para el caché de hints
type HintCacheRepository interface {
	Get(key string) (*AvailabilityHint, bool)
	Set(key string, hint *AvailabilityHint, ttl time.Duration)
	Delete(key string)
}

// TTLs de cada nivel: el local expira rápido para no servir hints muy
// viejos, Memcached aguanta un poco más para las réplicas
const (
	localCacheTTL     = 1 * time.Minute
	memcachedTTL      = 5 * time.Minute
	localCacheMaxSize = 5000
)

// hintCacheRepository implementa HintCacheRepository con dos niveles:
// ccache local en memoria y Memcached compartido entre instancias
type hintCacheRepository struct {
	localCache      *ccache.Cache[*AvailabilityHint]
	memcachedClient *memcache.Client
}

// NewHintCacheRepository crea una nueva instancia del caché de dos niveles
func NewHintCacheRepository(memcachedHost string) HintCacheRepository {
	localCache := ccache.New(ccache.Configure[*AvailabilityHint]().MaxSize(localCacheMaxSize))

	memcachedClient := memcache.New(memcachedHost)

	log.Printf("Hint cache initialized with Memcached at %s", memcachedHost)

	return &hintCacheRepository{
		localCache:      localCache,
		memcachedClient: memcachedClient,
	}
}

// Get obtiene un hint del caché (primero local, luego Memcached)
func (r *hintCacheRepository) Get(key string) (*AvailabilityHint, bool) {
	// 1. Buscar en caché local primero
	item := r.localCache.Get(key)
	if item != nil && !item.Expired() {
		return item.Value(), true
	}

	// 2. Si no está en local, buscar en Memcached
	memcachedItem, err := r.memcachedClient.Get(key)
	if err != nil {
		if err != memcache.ErrCacheMiss {
			log.Printf("Error getting from Memcached: key=%s, error=%v", key, err)
		}
		return nil, false
	}

	var hint AvailabilityHint
	if err := json.Unmarshal(memcachedItem.Value, &hint); err != nil {
		log.Printf("Error unmarshaling hint from Memcached: key=%s, error=%v", key, err)
		return nil, false
	}

	// 3. Guardar en caché local para próximas consultas
	r.localCache.Set(key, &hint, localCacheTTL)

	return &hint, true
}

// Set guarda un hint en ambos niveles de caché
func (r *hintCacheRepository) Set(key string, hint *AvailabilityHint, ttl time.Duration) {
	if ttl <= 0 || ttl > localCacheTTL {
		r.localCache.Set(key, hint, localCacheTTL)
	} else {
		r.localCache.Set(key, hint, ttl)
	}

	jsonData, err := json.Marshal(hint)
	if err != nil {
		log.Printf("Error marshaling hint for Memcached: key=%s, error=%v", key, err)
		return
	}

	if err := r.memcachedClient.Set(&memcache.Item{
		Key:        key,
		Value:      jsonData,
		Expiration: int32(memcachedTTL.Seconds()),
	}); err != nil {
		log.Printf("Error setting hint in Memcached: key=%s, error=%v", key, err)
	}
}

// Delete invalida un hint en ambos niveles
func (r *hintCacheRepository) Delete(key string) {
	r.localCache.Delete(key)

	if err := r.memcachedClient.Delete(key); err != nil && err != memcache.ErrCacheMiss {
		log.Printf("Error deleting hint from Memcached: key=%s, error=%v", key, err)
	}
}
