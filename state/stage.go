// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/vechain/nftstake/kv"
)

// Stage abstracts changes on the storage slots.
type Stage struct {
	changes map[StorageKey]rlp.RawValue
	order   []StorageKey
	cache   *Cache
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes all changes to the store in one atomic bulk.
func (s *Stage) Commit(store kv.Store) error {
	bulk := StorageBucket.NewStore(store).Bulk()
	for _, k := range s.order {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.Bytes())
		} else {
			err = bulk.Put(k.Bytes(), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit")
	}

	if s.cache != nil {
		for _, k := range s.order {
			if v := s.changes[k]; len(v) == 0 {
				s.cache.Add(k, nil)
			} else {
				s.cache.Add(k, v)
			}
		}
	}
	metricStorageCounter().AddWithLabel(int64(len(s.order)), map[string]string{"type": "write"})
	return nil
}
