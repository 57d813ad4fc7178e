package craft

import "math"

// Dest says where a finished output has space reserved.
type Dest string

const (
	// DestStore delivers into the normal capped store.
	DestStore Dest = "normal"
	// DestReserve delivers into cellar/warehouse reserve slots.
	DestReserve Dest = "cellar"
)

// Store is the resource ledger a workshop draws from and delivers into.
// Reservation bookkeeping lives behind it so that concurrent workshops
// cannot oversubscribe cap space or reserve slots.
type Store interface {
	Amount(item string) float64
	Spend(item string, qty float64)
	Refund(item string, qty float64)

	// OutputRoom is the remaining capped space for item, net of holds.
	// Uncapped items report +Inf.
	OutputRoom(item string) float64
	// ReserveRoom is the remaining reserve slot space, net of holds.
	ReserveRoom() float64

	HoldOutput(item string, qty float64)
	ReleaseOutput(item string, qty float64)
	HoldReserve(qty float64)
	ReleaseReserve(qty float64)

	DeliverOutput(item string, qty float64)
	DeliverReserve(item string, qty float64)
}

// Held records a reserved output destination for an in-flight job.
type Held struct {
	Dest Dest    `json:"dest"`
	Item string  `json:"item"`
	Qty  float64 `json:"qty"`
}

// Workshop is one crafting station worked by a fixed worker count. Starting
// a job deducts its inputs immediately and reserves output space; the job
// then accumulates progress each tick until its recipe time is met.
type Workshop struct {
	Workers  int                `json:"worker_count"`
	RecipeID string             `json:"current_recipe,omitempty"`
	Progress float64            `json:"progress"`
	Inputs   map[string]float64 `json:"reserved_inputs,omitempty"`
	Output   *Held              `json:"reserved_output,omitempty"`
}

// NewWorkshop returns an idle single-worker workshop.
func NewWorkshop() *Workshop {
	return &Workshop{Workers: 1}
}

// Idle reports whether the workshop has no job in flight.
func (w *Workshop) Idle() bool {
	return w.RecipeID == ""
}

// CanAccept reports whether the recipe's output has room in the normal store
// or in reserve slots.
func CanAccept(r *Recipe, st Store) bool {
	if r == nil {
		return false
	}
	if st.OutputRoom(r.Output) >= r.Qty {
		return true
	}
	return st.ReserveRoom() >= r.Qty
}

// Start reserves the recipe's inputs and output space, then begins the job.
// Returns false without side effects if the workshop is busy, inputs are
// short, or no destination has room.
func (w *Workshop) Start(r *Recipe, st Store) bool {
	if !w.Idle() || r == nil {
		return false
	}
	for item, qty := range r.Inputs {
		if st.Amount(item) < qty {
			return false
		}
	}

	held := &Held{Item: r.Output, Qty: r.Qty}
	switch {
	case st.OutputRoom(r.Output) >= r.Qty:
		held.Dest = DestStore
		st.HoldOutput(r.Output, r.Qty)
	case st.ReserveRoom() >= r.Qty:
		held.Dest = DestReserve
		st.HoldReserve(r.Qty)
	default:
		return false
	}

	inputs := make(map[string]float64, len(r.Inputs))
	for item, qty := range r.Inputs {
		st.Spend(item, qty)
		inputs[item] = qty
	}

	w.RecipeID = r.ID
	w.Progress = 0
	w.Inputs = inputs
	w.Output = held
	return true
}

// Advance adds one tick of work scaled by the production multiplier.
func (w *Workshop) Advance(mult float64) {
	if w.Idle() {
		return
	}
	w.Progress += mult * float64(w.Workers)
}

// Finish delivers the output if the job has accumulated enough work.
// Returns the completed recipe ID, or "" if the job is still running.
func (w *Workshop) Finish(r *Recipe, st Store) string {
	if w.Idle() || r == nil || w.Output == nil {
		return ""
	}
	if w.Progress < r.Time {
		return ""
	}

	switch w.Output.Dest {
	case DestReserve:
		st.ReleaseReserve(w.Output.Qty)
		st.DeliverReserve(w.Output.Item, w.Output.Qty)
	default:
		st.ReleaseOutput(w.Output.Item, w.Output.Qty)
		st.DeliverOutput(w.Output.Item, w.Output.Qty)
	}

	done := w.RecipeID
	w.reset()
	return done
}

// Cancel abandons the job, refunding reserved inputs and releasing the
// output reservation. Safe to call on an idle workshop.
func (w *Workshop) Cancel(st Store) {
	for item, qty := range w.Inputs {
		st.Refund(item, qty)
	}
	if w.Output != nil {
		switch w.Output.Dest {
		case DestReserve:
			st.ReleaseReserve(w.Output.Qty)
		default:
			st.ReleaseOutput(w.Output.Item, w.Output.Qty)
		}
	}
	w.reset()
}

func (w *Workshop) reset() {
	w.RecipeID = ""
	w.Progress = 0
	w.Inputs = nil
	w.Output = nil
}

// EnsureWorkshops grows or shrinks a workshop slice to the desired count,
// cancelling the jobs of any removed stations.
func EnsureWorkshops(ws []*Workshop, desired int, st Store) []*Workshop {
	for len(ws) < desired {
		ws = append(ws, NewWorkshop())
	}
	if len(ws) > desired {
		for _, w := range ws[desired:] {
			w.Cancel(st)
		}
		ws = ws[:desired]
	}
	return ws
}

// Uncapped is the room value for items without a storage cap.
var Uncapped = math.Inf(1)
