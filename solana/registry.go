// solana/registry.go
package solana

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// PoolSpec описывает один пул из файла реестра: адрес пула, два минта,
// их vault-аккаунты и комиссия. FeeState указывает аккаунт с динамической
// комиссией; без него действует статический FeeBps.
type PoolSpec struct {
	Address  string `json:"address"`
	TokenA   string `json:"token_a"`
	TokenB   string `json:"token_b"`
	VaultA   string `json:"vault_a"`
	VaultB   string `json:"vault_b"`
	FeeState string `json:"fee_state,omitempty"`
	FeeBps   uint16 `json:"fee_bps,omitempty"`
}

// poolList is the on-disk registry format.
type poolList struct {
	Pools []PoolSpec `json:"pools"`
}

// Registry хранит известные пулы, загруженные из JSON файла.
type Registry struct {
	mu     sync.RWMutex
	pools  map[types.PoolID]PoolSpec
	logger *zap.Logger
}

// NewRegistry создает пустой реестр пулов.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		pools:  make(map[types.PoolID]PoolSpec),
		logger: logger.Named("pool-registry"),
	}
}

// LoadPoolsFromFile загружает реестр пулов из JSON файла, заменяя
// предыдущее содержимое.
func (r *Registry) LoadPoolsFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pools file: %w", err)
	}

	var list poolList
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("failed to unmarshal pools: %w", err)
	}

	pools := make(map[types.PoolID]PoolSpec, len(list.Pools))
	for _, spec := range list.Pools {
		if spec.Address == "" || spec.TokenA == "" || spec.TokenB == "" {
			r.logger.Warn("Skipping malformed pool entry",
				zap.String("address", spec.Address))
			continue
		}
		pools[types.PoolID(spec.Address)] = spec
	}

	r.mu.Lock()
	r.pools = pools
	r.mu.Unlock()

	r.logger.Info("Pool registry loaded",
		zap.String("path", path),
		zap.Int("pools", len(pools)))
	return nil
}

// Add registers a single pool, replacing any entry with the same address.
func (r *Registry) Add(spec PoolSpec) {
	r.mu.Lock()
	r.pools[types.PoolID(spec.Address)] = spec
	r.mu.Unlock()
}

// Get returns the PoolSpec for a pool id.
func (r *Registry) Get(id types.PoolID) (PoolSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.pools[id]
	return spec, ok
}

// List returns all known pool ids.
func (r *Registry) List() []types.PoolID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]types.PoolID, 0, len(r.pools))
	for id := range r.pools {
		ids = append(ids, id)
	}
	return ids
}

// Len возвращает количество пулов в реестре.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pools)
}
