package domain

// Phase is the coarse state of a session's refinement.
type Phase int

const (
	// PhaseLoading is the warm-up screen shown right after connect.
	PhaseLoading Phase = iota
	// PhaseActive accepts refinement commands.
	PhaseActive
	// PhaseResetting is a single-tick transient used to flash the reset cue.
	PhaseResetting
	// PhaseComplete shows the prize screen once every bin has been full
	// for a sustained stretch.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseResetting:
		return "resetting"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

const (
	// loadStepTicks is how many ticks pass between warm-up progress steps.
	loadStepTicks = 3
	// loadHoldSteps is how many steps the warm-up holds at 100% before
	// activating.
	loadHoldSteps = 2
	// completeHoldTicks is how many consecutive ticks every bin must stay
	// full before the prize screen appears.
	completeHoldTicks = 9
)

// Refinement is the aggregate state of one session: all containers plus the
// phase machine. It is exclusively owned by the session's loop and performs
// no I/O.
type Refinement struct {
	source     *ValueSource
	containers []*Container
	batchSize  int

	phase        Phase
	loadProgress float64
	loadTimer    int
	loadHold     int
	completeHold int
	prize        string
}

func NewRefinement(containers, capacity, batchSize int, source *ValueSource) *Refinement {
	bins := make([]*Container, 0, containers)
	for i := 1; i <= containers; i++ {
		bins = append(bins, NewContainer(i, capacity))
	}
	return &Refinement{
		source:     source,
		containers: bins,
		batchSize:  batchSize,
		phase:      PhaseLoading,
	}
}

func (r *Refinement) Phase() Phase { return r.phase }
func (r *Refinement) Containers() []*Container { return r.containers }
func (r *Refinement) BatchSize() int { return r.batchSize }
func (r *Refinement) Prize() string { return r.prize }

// LoadingProgress reports warm-up completion in percent.
func (r *Refinement) LoadingProgress() float64 { return r.loadProgress }

// Container returns the bin with the given 1-based id.
func (r *Refinement) Container(id int) (*Container, bool) {
	if id < 1 || id > len(r.containers) {
		return nil, false
	}
	return r.containers[id-1], true
}

// Overall reports total progress across all bins, in [0, 1].
func (r *Refinement) Overall() float64 {
	if len(r.containers) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range r.containers {
		sum += c.Progress()
	}
	return sum / float64(len(r.containers))
}

// AllFull reports whether every bin has reached capacity.
func (r *Refinement) AllFull() bool {
	for _, c := range r.containers {
		if !c.Full() {
			return false
		}
	}
	return true
}

// Activate ends the warm-up early. The first recognized input during
// Loading triggers this; in any other phase it is a no-op.
func (r *Refinement) Activate() {
	if r.phase == PhaseLoading {
		r.phase = PhaseActive
	}
}

// AddBatch refines one batch of generated values into the bin with the
// given id. Valid only while Active. A full bin absorbs nothing; the
// command still succeeds so the user sees a plain no-op.
func (r *Refinement) AddBatch(id int) error {
	if r.phase != PhaseActive {
		return ErrNotActive
	}
	bin, ok := r.Container(id)
	if !ok {
		return ErrNoSuchContainer
	}
	for _, v := range r.source.Batch(r.batchSize) {
		if err := bin.Add(v); err != nil {
			break
		}
	}
	return nil
}

// AddRandomBatch refines one batch into a uniformly chosen bin.
func (r *Refinement) AddRandomBatch() error {
	if r.phase != PhaseActive {
		return ErrNotActive
	}
	return r.AddBatch(r.source.PickContainer(len(r.containers)))
}

// Deposit places a harvested sum into a random non-full bin. No-op when
// every bin is full or the sum is not positive.
func (r *Refinement) Deposit(sum int) error {
	if r.phase != PhaseActive {
		return ErrNotActive
	}
	if sum <= 0 {
		return nil
	}
	open := make([]*Container, 0, len(r.containers))
	for _, c := range r.containers {
		if !c.Full() {
			open = append(open, c)
		}
	}
	if len(open) == 0 {
		return nil
	}
	bin := open[r.source.rng.IntN(len(open))]
	return bin.Add(Refined{Value: sum, Feel: Feels[r.source.rng.IntN(len(Feels))]})
}

// BeginReset clears every bin and enters the one-tick Resetting phase.
func (r *Refinement) BeginReset() error {
	if r.phase != PhaseActive {
		return ErrNotActive
	}
	r.resetContainers()
	r.phase = PhaseResetting
	return nil
}

// ClaimPrize leaves the prize screen, clearing every bin and returning to
// Active. No-op outside Complete.
func (r *Refinement) ClaimPrize() {
	if r.phase != PhaseComplete {
		return
	}
	r.resetContainers()
	r.completeHold = 0
	r.phase = PhaseActive
}

// Tick advances time-driven transitions. Called exactly once per render
// tick by the owning session loop.
func (r *Refinement) Tick() {
	switch r.phase {
	case PhaseLoading:
		r.loadTimer++
		if r.loadTimer < loadStepTicks {
			return
		}
		r.loadTimer = 0
		if r.loadProgress >= 100 {
			r.loadHold++
			if r.loadHold >= loadHoldSteps {
				r.phase = PhaseActive
			}
			return
		}
		r.loadProgress += r.source.LoadingIncrement()
		if r.loadProgress > 100 {
			r.loadProgress = 100
		}

	case PhaseResetting:
		r.phase = PhaseActive

	case PhaseActive:
		if !r.AllFull() {
			r.completeHold = 0
			return
		}
		r.completeHold++
		if r.completeHold >= completeHoldTicks {
			r.prize = r.source.Prize()
			r.phase = PhaseComplete
		}
	}
}

func (r *Refinement) resetContainers() {
	for _, c := range r.containers {
		c.Reset()
	}
}
