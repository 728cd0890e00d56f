package view

// State is the lifecycle of a mounted post view.
type State int

const (
	Unresolved State = iota
	Resolving
	Resolved
	NotFound
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case NotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is final. Terminal states are never left.
func (s State) Terminal() bool {
	return s == Resolved || s == NotFound
}

// PostView is the render state of one mounted post. A new navigation mounts
// a new PostView with a higher generation; results carrying an older
// generation are dropped.
type PostView struct {
	id      string
	gen     uint64
	state   State
	headers []string
	body    string
	done    chan struct{}
}

func newPostView(id string, gen uint64) *PostView {
	return &PostView{id: id, gen: gen, state: Unresolved, done: make(chan struct{})}
}

type postSnapshot struct {
	state   State
	headers []string
	body    string
}

func (pv *PostView) snapshot() postSnapshot {
	return postSnapshot{state: pv.state, headers: pv.headers, body: pv.body}
}
