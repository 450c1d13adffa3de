package aggregator

import (
	"sync"
	"time"

	"github.com/Ethernal-Tech/bridge-transparency/core"
)

type storedToken struct {
	generation uint64
	data       core.TokenBalanceData
}

// snapshotStore keeps the latest result per key. A result is accepted only when its generation
// is not older than the stored one, so a slow cycle never overwrites a newer one.
type snapshotStore struct {
	lock sync.RWMutex

	tokenIDs []string
	tokens   map[string]storedToken

	pricesGeneration uint64
	prices           core.TokenPrices
	pricesError      string

	generation           uint64
	updatedAt            time.Time
	lastSuccessfulUpdate time.Time
}

func newSnapshotStore(loading []core.TokenBalanceData) *snapshotStore {
	store := &snapshotStore{
		tokenIDs: make([]string, len(loading)),
		tokens:   make(map[string]storedToken, len(loading)),
		prices:   core.TokenPrices{},
	}

	for i, data := range loading {
		store.tokenIDs[i] = data.TokenID
		store.tokens[data.TokenID] = storedToken{data: data}
	}

	return store
}

func (s *snapshotStore) storeToken(generation uint64, data core.TokenBalanceData) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	current, exists := s.tokens[data.TokenID]
	if !exists || current.generation > generation {
		return false
	}

	s.tokens[data.TokenID] = storedToken{generation: generation, data: data}

	return true
}

func (s *snapshotStore) storePrices(generation uint64, prices core.TokenPrices, err error) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.pricesGeneration > generation {
		return false
	}

	if prices == nil {
		prices = core.TokenPrices{}
	}

	s.pricesGeneration = generation
	s.prices = prices
	s.pricesError = ""

	if err != nil {
		s.pricesError = err.Error()
	}

	return true
}

// completeCycle records when a cycle finished. successful means no upstream read of the cycle failed.
func (s *snapshotStore) completeCycle(generation uint64, successful bool, now time.Time) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if generation < s.generation {
		return
	}

	s.generation = generation
	s.updatedAt = now

	if successful {
		s.lastSuccessfulUpdate = now
	}
}

func (s *snapshotStore) snapshot() core.DashboardSnapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()

	snapshot := core.DashboardSnapshot{
		Generation:           s.generation,
		Tokens:               make([]core.TokenBalanceData, len(s.tokenIDs)),
		Prices:               make(core.TokenPrices, len(s.prices)),
		PricesError:          s.pricesError,
		UpdatedAt:            s.updatedAt,
		LastSuccessfulUpdate: s.lastSuccessfulUpdate,
	}

	for id, price := range s.prices {
		snapshot.Prices[id] = price
	}

	for i, tokenID := range s.tokenIDs {
		data := s.tokens[tokenID].data
		snapshot.Tokens[i] = data
		snapshot.IsLoading = snapshot.IsLoading || data.IsLoading
		snapshot.IsError = snapshot.IsError || data.IsError
	}

	return snapshot
}
