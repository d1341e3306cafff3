package aggregator

import (
	"context"
	"fmt"
	"log"

	"github.com/iliyamo/cafe-reservation-hub/internal/kind"
	"github.com/iliyamo/cafe-reservation-hub/internal/lifecycle"
	"github.com/iliyamo/cafe-reservation-hub/internal/model"
)

// Transition validates and submits a status change for one item of the
// view, patching the cache optimistically and rolling back if the store
// refuses. The flow fails fast: an unresolvable cafe tenant or a
// transition the engine denies never reaches the network.
//
// The caller is expected to keep at most one transition in flight per
// item; ordering of rapid-fire submits on the same item is not guaranteed
// here. The returned item reflects the server-confirmed status, which
// wins over the optimistic patch if the two disagree.
func (a *Aggregator) Transition(ctx context.Context, actor Actor, id string, k kind.Kind, target lifecycle.Status) (model.BookableItem, error) {
	a.mu.Lock()
	prev := a.items
	patchGen := a.gen
	var current model.BookableItem
	found := false
	for _, it := range prev {
		if it.ID == id && it.Kind == k {
			current = it
			found = true
			break
		}
	}
	a.mu.Unlock()

	if !found {
		return model.BookableItem{}, fmt.Errorf("%w: %s/%s", ErrUnknownItem, k, id)
	}

	// The item's own tenant wins; the acting operator's assigned cafe is
	// the fallback. Neither resolving is a precondition failure distinct
	// from an illegal transition, raised before any network call.
	cafeID := current.CafeID
	if cafeID == "" {
		cafeID = actor.CafeID
	}
	if cafeID == "" {
		return model.BookableItem{}, ErrMissingCafeContext
	}

	decision := lifecycle.Decide(current.Status, actor.Role, target)
	if !decision.Allowed {
		return model.BookableItem{}, fmt.Errorf("%w: %s", ErrForbiddenTransition, decision.Reason)
	}

	// Optimistic patch: install a new collection, keep the previous
	// reference for rollback.
	patched := ApplyTransition(prev, id, k, decision.Next)
	a.mu.Lock()
	if a.gen == patchGen {
		a.items = patched
	}
	a.mu.Unlock()

	updated, err := a.gw.SubmitTransition(ctx, k, id, cafeID, decision.Next)
	if err != nil {
		// Roll back to the previous reference unless a newer Load already
		// replaced the cache, in which case server truth is in place.
		a.mu.Lock()
		if a.gen == patchGen {
			a.items = prev
		}
		a.mu.Unlock()
		return model.BookableItem{}, err
	}

	confirmed := current
	confirmed.Status = decision.Next
	confirmed.CafeID = cafeID
	if raw, ok := updated["status"].(string); ok {
		if st, perr := lifecycle.Parse(raw); perr == nil && st != decision.Next {
			// The store settled on a different state; reconcile the cache
			// to it, since the local copy is never authoritative.
			log.Printf("aggregator: server reconciled %s/%s to %s (requested %s)", k, id, st, decision.Next)
			confirmed.Status = st
			a.mu.Lock()
			if a.gen == patchGen {
				a.items = ApplyTransition(a.items, id, k, st)
			}
			a.mu.Unlock()
		}
	}
	return confirmed, nil
}
