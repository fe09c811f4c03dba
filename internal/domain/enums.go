// Package domain defines the core domain models for the assistant relay.
package domain

// RunStatus is the lifecycle status the remote service reports for a run.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusExpired        RunStatus = "expired"
	RunStatusIncomplete     RunStatus = "incomplete"
)

// StatusClass groups run statuses by what the run loop must do next.
type StatusClass int

const (
	// StatusClassWaiting means the run is still progressing; poll again later.
	StatusClassWaiting StatusClass = iota
	// StatusClassActionRequired means pending capability requests must be resolved.
	StatusClassActionRequired
	// StatusClassSucceeded is the terminal success state.
	StatusClassSucceeded
	// StatusClassFailed covers every other terminal state.
	StatusClassFailed
)

func (c StatusClass) String() string {
	switch c {
	case StatusClassWaiting:
		return "waiting"
	case StatusClassActionRequired:
		return "action_required"
	case StatusClassSucceeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Class maps a reported status onto its StatusClass. Statuses the remote
// service may add later fall into StatusClassFailed until listed here.
func (s RunStatus) Class() StatusClass {
	switch s {
	case RunStatusQueued, RunStatusInProgress, RunStatusCancelling:
		return StatusClassWaiting
	case RunStatusRequiresAction:
		return StatusClassActionRequired
	case RunStatusCompleted:
		return StatusClassSucceeded
	default:
		return StatusClassFailed
	}
}

// IsTerminal reports whether no further polling is meaningful.
func (s RunStatus) IsTerminal() bool {
	c := s.Class()
	return c == StatusClassSucceeded || c == StatusClassFailed
}

// Role is the author of a thread message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentType identifies the kind of a message content part.
type ContentType string

const (
	ContentTypeText      ContentType = "text"
	ContentTypeImageFile ContentType = "image_file"
	ContentTypeImageURL  ContentType = "image_url"
	ContentTypeRefusal   ContentType = "refusal"
)

// Capability result statuses.
const (
	CapabilityStatusOK    = "ok"
	CapabilityStatusError = "error"
)
