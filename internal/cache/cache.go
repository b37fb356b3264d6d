// Package cache memoizes read queries for a bounded time and drops them when
// the underlying entity is written.
package cache

import (
	"strings"
	"time"

	"meditrack_backend/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
)

// Entity names a cached data set. Keys are the entity name, optionally
// followed by ":" and a discriminator.
type Entity string

const (
	Drugs            Entity = "drugs"
	LowStock         Entity = "low_stock"
	Customers        Entity = "customers"
	Orders           Entity = "orders"
	Suppliers        Entity = "suppliers"
	Tickets          Entity = "tickets"
	RestockOrders    Entity = "restock_orders"
	RestockNeeds     Entity = "restock_needs"
	Payments         Entity = "payments"
	PaymentMethods   Entity = "payment_methods"
	PharmacyPayments Entity = "pharmacy_payments"
	Notifications    Entity = "notifications"
	Dashboards       Entity = "dashboards"
)

// LowStockTTL is how long the low stock listing may be served from memory.
const LowStockTTL = time.Hour

// dependents lists the entities derived from another one.
// Invalidating a key invalidates its dependents too.
var dependents = map[Entity][]Entity{
	Drugs:         {LowStock, RestockNeeds, Dashboards},
	LowStock:      {Dashboards},
	Customers:     {Dashboards},
	Orders:        {Dashboards},
	Suppliers:     {Dashboards},
	Tickets:       {Dashboards},
	RestockOrders: {RestockNeeds, Dashboards},
}

// Cache is a TTL memo store keyed by entity.
type Cache struct {
	store      *gocache.Cache
	defaultTTL time.Duration
}

// New creates a cache whose entries expire after defaultTTL unless told otherwise.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Cache{
		store:      gocache.New(defaultTTL, 2*defaultTTL),
		defaultTTL: defaultTTL,
	}
}

// Key builds the cache key for entity, e.g. Key(Tickets, 3) = "tickets:3".
func Key(entity Entity, parts ...string) string {
	if len(parts) == 0 {
		return string(entity)
	}
	return string(entity) + ":" + strings.Join(parts, ":")
}

// Remember returns the cached value under key or loads, stores and returns it.
// A ttl of zero uses the cache default. Errors are never cached.
func Remember[T any](c *Cache, key string, ttl time.Duration, loader func() (T, error)) (T, error) {
	if c == nil {
		return loader()
	}
	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := loader()
	if err != nil {
		return value, err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.store.Set(key, value, ttl)
	return value, nil
}

// Invalidate drops every key of the given entities and of the entities derived from them.
func (c *Cache) Invalidate(entities ...Entity) {
	if c == nil {
		return
	}
	targets := expand(entities)

	for key := range c.store.Items() {
		for entity := range targets {
			name := string(entity)
			if key == name || strings.HasPrefix(key, name+":") {
				c.store.Delete(key)
				break
			}
		}
	}
	utils.LogDebug("Cache invalidated", map[string]interface{}{"entities": entityNames(targets)})
}

// Flush empties the cache.
func (c *Cache) Flush() {
	if c != nil {
		c.store.Flush()
	}
}

func expand(entities []Entity) map[Entity]struct{} {
	seen := make(map[Entity]struct{})
	queue := append([]Entity(nil), entities...)
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		queue = append(queue, dependents[e]...)
	}
	return seen
}

func entityNames(set map[Entity]struct{}) []string {
	names := make([]string, 0, len(set))
	for e := range set {
		names = append(names, string(e))
	}
	return names
}
