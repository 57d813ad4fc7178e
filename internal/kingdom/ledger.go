package kingdom

import "github.com/brownbat/kingdom-clicker/internal/craft"

// State implements craft.Store: workshops draw inputs from the settlement
// stores and deliver into them, with reservation holds preventing two
// in-flight jobs from claiming the same cap space or reserve slot.

// Amount returns the current stock of a resource.
func (s *State) Amount(item string) float64 {
	return s.Stores[item]
}

// Spend deducts a quantity. Callers verify availability first.
func (s *State) Spend(item string, qty float64) {
	s.Stores[item] -= qty
}

// Refund returns a quantity to the store.
func (s *State) Refund(item string, qty float64) {
	s.Stores[item] += qty
}

// OutputRoom is the capped space left for an item, net of reservation holds.
func (s *State) OutputRoom(item string) float64 {
	cap, ok := s.Cap(item)
	if !ok {
		return craft.Uncapped
	}
	return cap - s.Stores[item] - s.heldOutputs[item]
}

// ReserveRoom is the free reserve slot space, net of reservation holds.
func (s *State) ReserveRoom() float64 {
	return s.ReserveCapacity - s.ReserveUsed() - s.heldReserve
}

// ReserveUsed sums the goods sitting in cellars and warehouses.
func (s *State) ReserveUsed() float64 {
	used := 0.0
	for _, qty := range s.Reserve {
		used += qty
	}
	return used
}

// HoldOutput reserves cap space for a pending workshop delivery.
func (s *State) HoldOutput(item string, qty float64) {
	s.heldOutputs[item] += qty
}

// ReleaseOutput frees a cap-space hold.
func (s *State) ReleaseOutput(item string, qty float64) {
	s.heldOutputs[item] -= qty
	if s.heldOutputs[item] < 0 {
		s.heldOutputs[item] = 0
	}
}

// HoldReserve reserves slot space for a pending reserve delivery.
func (s *State) HoldReserve(qty float64) {
	s.heldReserve += qty
}

// ReleaseReserve frees a reserve slot hold.
func (s *State) ReleaseReserve(qty float64) {
	s.heldReserve -= qty
	if s.heldReserve < 0 {
		s.heldReserve = 0
	}
}

// DeliverOutput adds a finished output to the normal store.
func (s *State) DeliverOutput(item string, qty float64) {
	s.Stores[item] += qty
}

// DeliverReserve adds a finished output to reserve storage.
func (s *State) DeliverReserve(item string, qty float64) {
	s.Reserve[item] += qty
}

// RebuildHolds recomputes reservation holds from in-flight workshop jobs.
// Called after loading a snapshot.
func (s *State) RebuildHolds() {
	s.heldOutputs = map[string]float64{}
	s.heldReserve = 0
	for _, w := range s.AllWorkshops() {
		if w.Output == nil {
			continue
		}
		if w.Output.Dest == craft.DestReserve {
			s.heldReserve += w.Output.Qty
		} else {
			s.heldOutputs[w.Output.Item] += w.Output.Qty
		}
	}
}

// trimReserve discards stored goods above the remaining reserve capacity,
// used when a cellar or warehouse is demolished.
func (s *State) trimReserve() {
	overflow := s.ReserveUsed() - s.ReserveCapacity
	if overflow <= 0 {
		return
	}
	// Deterministic order so demolition has reproducible losses.
	names := make([]string, 0, len(s.Reserve))
	for name := range s.Reserve {
		names = append(names, name)
	}
	sortStrings(names)
	for _, name := range names {
		if overflow <= 0 {
			break
		}
		take := s.Reserve[name]
		if take > overflow {
			take = overflow
		}
		s.Reserve[name] -= take
		overflow -= take
		if s.Reserve[name] <= 0 {
			delete(s.Reserve, name)
		}
	}
}
