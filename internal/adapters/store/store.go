// Package store defines the session store interface and errors.
package store

import (
	"context"
	"sort"

	"focusboard/internal/domain/model"
)

// Snapshot is a full, immutable view of one collection at a point in time,
// keyed by record ID. Subscribers always receive whole snapshots; there is
// no incremental diffing, readers replace their previous view entirely.
type Snapshot map[string]model.FocusSession

// Sessions returns the snapshot's records ordered by creation time, record
// ID breaking ties. The order is deterministic, so aggregations over the
// same snapshot always see the same sequence.
func (s Snapshot) Sessions() []model.FocusSession {
	type rec struct {
		id      string
		session model.FocusSession
	}
	recs := make([]rec, 0, len(s))
	for id, session := range s {
		recs = append(recs, rec{id: id, session: session})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].session.CreatedAt != recs[j].session.CreatedAt {
			return recs[i].session.CreatedAt < recs[j].session.CreatedAt
		}
		return recs[i].id < recs[j].id
	})
	out := make([]model.FocusSession, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.session)
	}
	return out
}

// Store provides append-only access to session collections and snapshot
// subscriptions over them.
type Store interface {
	// Append persists one session record and returns its assigned ID.
	// Records without a timestamp are stamped with the store clock.
	Append(ctx context.Context, collection string, session model.FocusSession) (string, error)

	// Subscribe registers for full-snapshot updates on a collection. The
	// current snapshot is delivered first, then one per change. Updates
	// coalesce: a slow reader skips intermediate states and always lands
	// on the latest. The returned func cancels the subscription.
	Subscribe(ctx context.Context, collection string) (<-chan Snapshot, func(), error)

	// Snapshot returns the current full view of a collection.
	Snapshot(ctx context.Context, collection string) (Snapshot, error)

	// Count returns the number of records in a collection.
	Count(ctx context.Context, collection string) int

	// Close stops the store and closes every subscriber channel.
	Close(ctx context.Context) error
}
