package tuition

import (
	"sync"

	"github.com/baila/tuition-engine/roster"
)

// =============================================================================
// PRICER CACHE - Memoized pricing at the query boundary
// =============================================================================

// PricerCache memoizes pricing and classification results. The engine is
// pure given (snapshot, price table, today), so results stay valid until a
// write replaces the snapshot (Reset) or the day rolls over (today is part
// of the key).
type PricerCache struct {
	mu     sync.RWMutex
	pricer *StudentPricer

	pricing map[pricingKey]*PricingResult
	classes map[classKey]*Classification
}

type pricingKey struct {
	ID    roster.StudentID
	Kind  HorizonKind
	Today roster.Date
}

type classKey struct {
	ID    roster.StudentID
	Today roster.Date
}

func NewPricerCache(pricer *StudentPricer) *PricerCache {
	return &PricerCache{
		pricer:  pricer,
		pricing: make(map[pricingKey]*PricingResult),
		classes: make(map[classKey]*Classification),
	}
}

// Reset swaps in a pricer over a fresh snapshot and drops everything
// memoized. Call after any write.
func (c *PricerCache) Reset(pricer *StudentPricer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pricer = pricer
	c.pricing = make(map[pricingKey]*PricingResult)
	c.classes = make(map[classKey]*Classification)
}

// Pricer returns the current underlying pricer.
func (c *PricerCache) Pricer() *StudentPricer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pricer
}

func (c *PricerCache) PriceStudent(id roster.StudentID, kind HorizonKind) (*PricingResult, error) {
	c.mu.RLock()
	key := pricingKey{ID: id, Kind: kind, Today: c.pricer.Clock.Today()}
	if r, ok := c.pricing[key]; ok {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.pricing[key]; ok {
		return r, nil
	}
	r, err := c.pricer.PriceStudent(id, kind)
	if err != nil {
		return nil, err
	}
	c.pricing[key] = r
	return r, nil
}

func (c *PricerCache) Classify(id roster.StudentID) (*Classification, error) {
	c.mu.RLock()
	key := classKey{ID: id, Today: c.pricer.Clock.Today()}
	if r, ok := c.classes[key]; ok {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.classes[key]; ok {
		return r, nil
	}
	r, err := c.pricer.Classify(id)
	if err != nil {
		return nil, err
	}
	c.classes[key] = r
	return r, nil
}
