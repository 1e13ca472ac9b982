// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/common"
)

// EventDB indexes staking events.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// sqlite serializes writers anyway; one conn also keeps ":memory:" a single db
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Insert stores events in one transaction.
func (db *EventDB) Insert(ctx context.Context, events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO event(kind, user, asset, amount, timestamp) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		res, err := stmt.ExecContext(ctx,
			ev.Kind,
			ev.User.Bytes(),
			ev.Asset.Bytes(),
			int64(ev.Amount),
			ev.Timestamp,
		)
		if err != nil {
			return err
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return err
		}
		ev.Seq = uint64(seq)
	}
	return tx.Commit()
}

// Filter queries events matching the filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	const query = "SELECT seq, kind, user, asset, amount, timestamp FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}

	var (
		args  []any
		conds []string
	)
	if filter.User != nil {
		conds = append(conds, "user = ?")
		args = append(args, filter.User.Bytes())
	}
	if filter.Asset != nil {
		conds = append(conds, "asset = ?")
		args = append(args, filter.Asset.Bytes())
	}
	if len(filter.Kinds) > 0 {
		conds = append(conds, "kind IN (?"+strings.Repeat(", ?", len(filter.Kinds)-1)+")")
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}
	if filter.Range != nil {
		conds = append(conds, "timestamp >= ?")
		args = append(args, filter.Range.From)
		if filter.Range.To >= filter.Range.From {
			conds = append(conds, "timestamp <= ?")
			args = append(args, filter.Range.To)
		}
	}

	stmt := query
	if len(conds) > 0 {
		stmt += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			seq       int64
			kind      string
			user      []byte
			asset     []byte
			amount    int64
			timestamp int64
		)
		if err := rows.Scan(&seq, &kind, &user, &asset, &amount, &timestamp); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			Seq:       uint64(seq),
			Kind:      kind,
			User:      common.BytesToAddress(user),
			Asset:     common.BytesToBytes32(asset),
			Amount:    uint64(amount),
			Timestamp: timestamp,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
