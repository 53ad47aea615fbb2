package partitions

// Comm is the process-group contract used by collective mesh operations.
// One rank corresponds to one mesh partition. Every collective method
// must be entered by all ranks of the group in the same logical order
// with matching arguments; the group cannot detect a violated ordering,
// it simply deadlocks or returns mismatched data.
type Comm interface {
	// Rank returns this process's index within the group.
	Rank() int

	// Size returns the number of cooperating processes.
	Size() int

	// AllGather collects one value from every rank, ordered by rank.
	// Collective.
	AllGather(v int) []int

	// AllToAll delivers send[r] to rank r and returns, per rank, the
	// slice that rank addressed to this one. send must have length
	// Size(); nil entries are allowed. Collective.
	AllToAll(send [][]int) [][]int
}

// SerialComm is the trivial single-process group.
type SerialComm struct{}

func (SerialComm) Rank() int { return 0 }

func (SerialComm) Size() int { return 1 }

func (SerialComm) AllGather(v int) []int { return []int{v} }

func (SerialComm) AllToAll(send [][]int) [][]int {
	if len(send) == 0 {
		return [][]int{nil}
	}
	return [][]int{send[0]}
}

// group is an in-memory Comm linking ranks that live in one OS process,
// one goroutine per rank. It exists for tests and single-machine runs;
// a real multi-node deployment supplies an MPI-backed Comm instead.
type group struct {
	rank  int
	size  int
	state *groupState
}

type groupState struct {
	// ints[i][j] and blobs[i][j] carry messages from rank i to rank j.
	// Buffered size 1 so a rank can post all its sends before draining
	// its receives.
	ints  [][]chan int
	blobs [][]chan []int
}

// NewGroup creates an in-memory process group of the given size and
// returns one Comm per rank. Each returned Comm must be driven by its
// own goroutine.
func NewGroup(size int) []Comm {
	st := &groupState{
		ints:  make([][]chan int, size),
		blobs: make([][]chan []int, size),
	}
	for i := 0; i < size; i++ {
		st.ints[i] = make([]chan int, size)
		st.blobs[i] = make([]chan []int, size)
		for j := 0; j < size; j++ {
			st.ints[i][j] = make(chan int, 1)
			st.blobs[i][j] = make(chan []int, 1)
		}
	}
	comms := make([]Comm, size)
	for r := 0; r < size; r++ {
		comms[r] = &group{rank: r, size: size, state: st}
	}
	return comms
}

func (g *group) Rank() int { return g.rank }

func (g *group) Size() int { return g.size }

func (g *group) AllGather(v int) []int {
	out := make([]int, g.size)
	for q := 0; q < g.size; q++ {
		if q != g.rank {
			g.state.ints[g.rank][q] <- v
		}
	}
	out[g.rank] = v
	for q := 0; q < g.size; q++ {
		if q != g.rank {
			out[q] = <-g.state.ints[q][g.rank]
		}
	}
	return out
}

func (g *group) AllToAll(send [][]int) [][]int {
	recv := make([][]int, g.size)
	for q := 0; q < g.size; q++ {
		if q == g.rank {
			continue
		}
		var msg []int
		if q < len(send) {
			msg = send[q]
		}
		g.state.blobs[g.rank][q] <- msg
	}
	if g.rank < len(send) {
		recv[g.rank] = send[g.rank]
	}
	for q := 0; q < g.size; q++ {
		if q != g.rank {
			recv[q] = <-g.state.blobs[q][g.rank]
		}
	}
	return recv
}
