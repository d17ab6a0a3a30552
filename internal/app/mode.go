package app

// Mode is the interaction state that decides how input is interpreted.
type Mode int

// ModeNormal and related constants enumerate every interaction mode.
const (
	ModeNormal Mode = iota
	ModeEditingList
	ModeEditingTask
	ModeCreatingList
	ModeCreatingTask
	ModeConfirmDeleteList
	ModeConfirmDeleteTask
)

// String returns a stable name for logs and tests.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeEditingList:
		return "editing-list"
	case ModeEditingTask:
		return "editing-task"
	case ModeCreatingList:
		return "creating-list"
	case ModeCreatingTask:
		return "creating-task"
	case ModeConfirmDeleteList:
		return "confirm-delete-list"
	case ModeConfirmDeleteTask:
		return "confirm-delete-task"
	default:
		return "unknown"
	}
}

// IsTextEntry reports whether the mode collects text into the input buffer.
func (m Mode) IsTextEntry() bool {
	switch m {
	case ModeEditingList, ModeEditingTask, ModeCreatingList, ModeCreatingTask:
		return true
	default:
		return false
	}
}

// IsConfirm reports whether the mode waits for a yes/no answer.
func (m Mode) IsConfirm() bool {
	return m == ModeConfirmDeleteList || m == ModeConfirmDeleteTask
}
