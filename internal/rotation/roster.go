// Package rotation implements the tontine roster, the rotation planner and the
// round ledger. Every function here operates synchronously on in-memory models
// and performs no I/O; callers serialize writes per tontine and persist results.
package rotation

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/mmynk/dourou/internal/models"
)

// Roster maintains the gap-free payout order of a draft tontine.
type Roster struct {
	t *models.Tontine
}

// NewRoster wraps the roster of t. Mutations are written through to t.Members.
func NewRoster(t *models.Tontine) *Roster {
	sort.SliceStable(t.Members, func(i, j int) bool {
		return t.Members[i].PayoutOrder < t.Members[j].PayoutOrder
	})
	return &Roster{t: t}
}

// Members returns a copy of the roster ordered by payout position.
func (r *Roster) Members() []models.Member {
	out := make([]models.Member, len(r.t.Members))
	copy(out, r.t.Members)
	return out
}

func (r *Roster) checkMutable() error {
	if r.t.Status != models.TontineDraft {
		return fmt.Errorf("%w: status is %s", ErrRosterLocked, r.t.Status)
	}
	return nil
}

// Add appends m to the end of the payout order.
// The caller provides the id, name, phone and AddedAt; PayoutOrder and
// TontineID are assigned here.
func (r *Roster) Add(m models.Member) (*models.Member, error) {
	if err := r.checkMutable(); err != nil {
		return nil, err
	}
	if len(r.t.Members) >= r.t.TotalMembers {
		return nil, fmt.Errorf("%w: %d of %d", ErrCapacityExceeded, len(r.t.Members), r.t.TotalMembers)
	}
	for _, existing := range r.t.Members {
		if existing.Phone == m.Phone {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePhone, m.Phone)
		}
	}

	m.TontineID = r.t.ID
	m.PayoutOrder = len(r.t.Members) + 1
	r.t.Members = append(r.t.Members, m)
	return &r.t.Members[len(r.t.Members)-1], nil
}

// Remove deletes a member and shifts everyone behind it up by one position.
func (r *Roster) Remove(memberID string) error {
	if err := r.checkMutable(); err != nil {
		return err
	}
	idx := -1
	for i, m := range r.t.Members {
		if m.ID == memberID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, memberID)
	}

	r.t.Members = append(r.t.Members[:idx], r.t.Members[idx+1:]...)
	r.reindex()
	return nil
}

// Reorder replaces the payout order wholesale. ids must name every current
// member exactly once.
func (r *Roster) Reorder(ids []string) error {
	if err := r.checkMutable(); err != nil {
		return err
	}
	if len(ids) != len(r.t.Members) {
		return fmt.Errorf("%w: got %d ids for %d members", ErrInvalidPermutation, len(ids), len(r.t.Members))
	}

	byID := make(map[string]models.Member, len(r.t.Members))
	for _, m := range r.t.Members {
		byID[m.ID] = m
	}
	seen := make(map[string]bool, len(ids))
	reordered := make([]models.Member, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown member %s", ErrInvalidPermutation, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: member %s listed twice", ErrInvalidPermutation, id)
		}
		seen[id] = true
		reordered = append(reordered, m)
	}

	r.t.Members = reordered
	r.reindex()
	return nil
}

// Shuffle applies a uniformly random permutation (Fisher-Yates).
// A nil rng uses the global source.
func (r *Roster) Shuffle(rng *rand.Rand) error {
	if err := r.checkMutable(); err != nil {
		return err
	}
	ids := make([]string, len(r.t.Members))
	for i, m := range r.t.Members {
		ids[i] = m.ID
	}
	swap := func(i, j int) { ids[i], ids[j] = ids[j], ids[i] }
	if rng != nil {
		rng.Shuffle(len(ids), swap)
	} else {
		rand.Shuffle(len(ids), swap)
	}
	return r.Reorder(ids)
}

func (r *Roster) reindex() {
	for i := range r.t.Members {
		r.t.Members[i].PayoutOrder = i + 1
	}
}
