// Copyright (c) 2021 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket prefixes every key, partitioning one store into namespaces.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	out := make([]byte, 0, len(b)+len(k))
	out = append(out, b...)
	return append(out, k...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) { return src.Get(b.key(key)) },
		func(key []byte) (bool, error) { return src.Has(b.key(key)) },
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error { return src.Put(b.key(key), val) },
		func(key []byte) error { return src.Delete(b.key(key)) },
	}
}

// NewStore creates a bucket store from the source store.
// Closing the bucket store closes the source.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		BulkFunc
		IterateFunc
		CloseFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		func() Bulk { return b.wrapBulk(src.Bulk()) },
		func(r Range) Iterator { return b.iterate(src, r) },
		src.Close,
	}
}

func (b Bucket) wrapBulk(bulk Bulk) Bulk {
	return &struct {
		Putter
		LenFunc
		WriteFunc
	}{b.NewPutter(bulk), bulk.Len, bulk.Write}
}

// iterate scans r within the bucket, an empty limit meaning the bucket end.
// Keys are returned without the prefix.
func (b Bucket) iterate(src Store, r Range) Iterator {
	bounded := Range{Start: b.key(r.Start)}
	if len(r.Limit) == 0 {
		bounded.Limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		bounded.Limit = b.key(r.Limit)
	}
	iter := src.Iterate(bounded)
	return &struct {
		NextFunc
		KeyFunc
		ValueFunc
		ReleaseFunc
		ErrorFunc
	}{
		iter.Next,
		func() []byte { return iter.Key()[len(b):] },
		iter.Value,
		iter.Release,
		iter.Error,
	}
}
