// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/nftstake/cache"
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/stackedmap"
)

// StorageBucket is the kv bucket holding all storage slots.
const StorageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StorageKey locates a storage slot.
type StorageKey struct {
	Addr common.Address
	Key  common.Bytes32
}

// Bytes returns the kv key of the slot, without the bucket prefix.
func (k StorageKey) Bytes() []byte {
	b := make([]byte, 0, common.AddressLength+32)
	b = append(b, k.Addr[:]...)
	return append(b, k.Key[:]...)
}

// Cache caches committed slot values across State instances.
type Cache = cache.LRU[StorageKey, rlp.RawValue]

// NewCache creates the committed value cache.
func NewCache(size int) (*Cache, error) {
	return cache.NewLRU[StorageKey, rlp.RawValue](size)
}

// State manages the storage slots.
type State struct {
	db    kv.Getter
	cache *Cache // optional
	sm    *stackedmap.StackedMap[StorageKey, rlp.RawValue]
}

// New create state object. The cache may be nil.
func New(store kv.Getter, c *Cache) *State {
	s := &State{
		db:    StorageBucket.NewGetter(store),
		cache: c,
	}
	s.sm = stackedmap.New(s.load)
	// base level collecting changes
	s.sm.Push()
	return s
}

// load implements stackedmap.MapGetter.
func (s *State) load(key StorageKey) (rlp.RawValue, bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			metricStorageCounter().AddWithLabel(1, map[string]string{"type": "hit"})
			return v, true, nil
		}
	}
	metricStorageCounter().AddWithLabel(1, map[string]string{"type": "miss"})

	v, err := s.db.Get(key.Bytes())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, err
		}
		v = nil
	}
	if s.cache != nil {
		s.cache.Add(key, v)
	}
	return v, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr common.Address, key common.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(StorageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw. Empty raw deletes the slot.
func (s *State) SetRawStorage(addr common.Address, key common.Bytes32, raw rlp.RawValue) {
	s.sm.Put(StorageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr common.Address, key common.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr common.Address, key common.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	// never pop the base level
	if revision < 1 {
		revision = 1
	}
	s.sm.PopTo(revision)
}

// Stage makes a stage object holding the latest value of every changed slot.
func (s *State) Stage() *Stage {
	changes := make(map[StorageKey]rlp.RawValue)
	var order []StorageKey

	s.sm.Journal(func(k StorageKey, v rlp.RawValue) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})
	return &Stage{changes: changes, order: order, cache: s.cache}
}

// CountSlots returns the number of committed storage slots in store.
func CountSlots(store kv.Store) (int, error) {
	iter := StorageBucket.NewStore(store).Iterate(kv.Range{})
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}
