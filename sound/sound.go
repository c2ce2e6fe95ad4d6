package sound

// Clip names triggered by gameplay.
const (
	Jump = "jump"
	Fire = "fire"
	Pop  = "pop"
)

// Sink receives fire-and-forget audio triggers.
type Sink interface {
	Play(name string, volume float64)
	Stop(name string)
}

// Nop drops every trigger.
type Nop struct{}

func (Nop) Play(string, float64) {}
func (Nop) Stop(string)          {}

type Op uint8

const (
	OpPlay Op = iota
	OpStop
)

type Event struct {
	Op     Op
	Name   string
	Volume float64
}

// Recorder keeps every trigger in order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Play(name string, volume float64) {
	r.Events = append(r.Events, Event{Op: OpPlay, Name: name, Volume: volume})
}

func (r *Recorder) Stop(name string) {
	r.Events = append(r.Events, Event{Op: OpStop, Name: name})
}

// Plays counts Play triggers for name.
func (r *Recorder) Plays(name string) int {
	return r.count(OpPlay, name)
}

// Stops counts Stop triggers for name.
func (r *Recorder) Stops(name string) int {
	return r.count(OpStop, name)
}

func (r *Recorder) count(op Op, name string) int {
	n := 0
	for _, e := range r.Events {
		if e.Op == op && e.Name == name {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}
