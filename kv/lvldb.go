// Copyright (c) 2019 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	writeOpt = opt.WriteOptions{}
	syncOpt  = opt.WriteOptions{Sync: true}
	readOpt  = opt.ReadOptions{}
	scanOpt  = opt.ReadOptions{DontFillCache: true}
)

// Options optional parameters for the leveldb store.
type Options struct {
	CacheSize              int // MiB
	OpenFilesCacheCapacity int
	SyncWrite              bool // bulk writes are fsynced
}

type levelStore struct {
	db       *leveldb.DB
	writeOpt *opt.WriteOptions
}

// NewLevelDB opens a leveldb backed store at path.
// A corrupted database is recovered once before giving up.
func NewLevelDB(path string, options Options) (Store, error) {
	ldbOpts := levelOptions(options)
	db, err := leveldb.OpenFile(path, ldbOpts)
	if _, corrupted := err.(*dberrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, ldbOpts)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open level db")
	}
	return newLevelStore(db, options), nil
}

// NewMemLevelDB creates a leveldb store in memory.
func NewMemLevelDB() Store {
	db, err := leveldb.Open(storage.NewMemStorage(), levelOptions(Options{}))
	if err != nil {
		panic(err) // mem storage never fails to open
	}
	return newLevelStore(db, Options{})
}

func levelOptions(options Options) *opt.Options {
	cacheSize := options.CacheSize
	if cacheSize < 16 {
		cacheSize = 16
	}
	handles := options.OpenFilesCacheCapacity
	if handles < 64 {
		handles = 64
	}
	return &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
}

func newLevelStore(db *leveldb.DB, options Options) *levelStore {
	wo := &writeOpt
	if options.SyncWrite {
		wo = &syncOpt
	}
	return &levelStore{db, wo}
}

func (s *levelStore) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, &readOpt)
	// val will be []byte{} if error occurs, which is not expected
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *levelStore) Has(key []byte) (bool, error) {
	return s.db.Has(key, &readOpt)
}

func (s *levelStore) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (s *levelStore) Put(key, val []byte) error {
	return s.db.Put(key, val, s.writeOpt)
}

func (s *levelStore) Delete(key []byte) error {
	return s.db.Delete(key, s.writeOpt)
}

func (s *levelStore) Bulk() Bulk {
	batch := &leveldb.Batch{}
	return &struct {
		PutFunc
		DeleteFunc
		LenFunc
		WriteFunc
	}{
		func(key, val []byte) error {
			batch.Put(key, val)
			return nil
		},
		func(key []byte) error {
			batch.Delete(key)
			return nil
		},
		batch.Len,
		func() error {
			if batch.Len() == 0 {
				return nil
			}
			if err := s.db.Write(batch, s.writeOpt); err != nil {
				return err
			}
			batch.Reset()
			return nil
		},
	}
}

func (s *levelStore) Iterate(r Range) Iterator {
	return s.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &scanOpt)
}

func (s *levelStore) Close() error {
	return s.db.Close()
}
