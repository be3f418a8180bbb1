package collections

import "fmt"

// Op names what a manager was doing when it emitted an [Event].
type Op int

const (
	OpLoadLocal Op = iota
	OpFetchRemote
	OpCreateLocal
	OpDeleteLocal
	OpUpdateLocal
	OpCreateRemote
	OpDeleteRemote
	OpUpdateRemote
	OpScan
	OpUpload
)

func (o Op) String() string {
	switch o {
	case OpLoadLocal:
		return "load_local"
	case OpFetchRemote:
		return "fetch_remote"
	case OpCreateLocal:
		return "create_local"
	case OpDeleteLocal:
		return "delete_local"
	case OpUpdateLocal:
		return "update_local"
	case OpCreateRemote:
		return "create_remote"
	case OpDeleteRemote:
		return "delete_remote"
	case OpUpdateRemote:
		return "update_remote"
	case OpScan:
		return "scan"
	case OpUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// Event is a progress or change notification for the consumer surface.
type Event struct {
	Kind    string // entity kind, e.g. "songs"
	Op      Op
	ID      string // affected entity, when there is one
	Step    int
	Total   int
	Message string
	Err     error
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s failed: %v", e.Kind, e.Op, e.Err)
	}
	if e.Total > 0 {
		return fmt.Sprintf("[%s] %s (%d/%d) %s", e.Kind, e.Op, e.Step, e.Total, e.Message)
	}
	return fmt.Sprintf("[%s] %s %s", e.Kind, e.Op, e.Message)
}

// sendEvent delivers ev without blocking. A nil or full channel drops it.
func sendEvent(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}
