package workflow

import "time"

// Phase is where one operation group currently stands.
type Phase int

const (
	Idle Phase = iota
	Busy
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the state of one operation group.
type Status struct {
	Phase   Phase
	Message string
}

// Group identifies an operation group. Groups track status independently
// but share one status line.
type Group string

const (
	GroupPrompt       Group = "prompt"
	GroupImage        Group = "image"
	GroupPush         Group = "push"
	GroupFolder       Group = "folder"
	GroupConnectivity Group = "connectivity"
	GroupDevice       Group = "device"
	GroupSave         Group = "save"
)

// WorkflowGroups are the groups that share the main busy indicator.
var WorkflowGroups = []Group{GroupPrompt, GroupImage, GroupPush, GroupFolder}

// Connectivity is the tri-state result of a connection test. The zero value
// means no test has run since the last reset.
type Connectivity string

const (
	ConnectivityNone    Connectivity = ""
	ConnectivityTesting Connectivity = "testing"
	ConnectivitySuccess Connectivity = "success"
	ConnectivityError   Connectivity = "error"
)

// Notification is a transient success message.
type Notification struct {
	Message   string
	ExpiresAt time.Time
}

// Snapshot is a copy of the controller state, safe to read without locks.
type Snapshot struct {
	StatusLine string
	Prompt     string
	ImageRef   string
	Statuses   map[Group]Status

	Connectivity        Connectivity
	ConnectivityMessage string

	// DeviceCheck is nil until a device check has completed.
	DeviceCheck *bool

	Notification *Notification
}

// Busy reports whether any of groups (all workflow groups when none are
// given) is in flight.
func (s Snapshot) Busy(groups ...Group) bool {
	if len(groups) == 0 {
		groups = WorkflowGroups
	}
	for _, g := range groups {
		if s.Statuses[g].Phase == Busy {
			return true
		}
	}
	return false
}
