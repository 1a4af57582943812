package board

// ConfirmState is either ConfirmIdle or ConfirmPending.
type ConfirmState interface {
	confirmState()
}

// ConfirmIdle means no deletion awaits confirmation.
type ConfirmIdle struct{}

// ConfirmPending holds the task a delete was requested for.
type ConfirmPending struct {
	TaskID string
}

func (ConfirmIdle) confirmState()    {}
func (ConfirmPending) confirmState() {}

// PendingDelete returns the id awaiting confirmation.
func PendingDelete(state ConfirmState) (string, bool) {
	if p, ok := state.(ConfirmPending); ok {
		return p.TaskID, true
	}
	return "", false
}
