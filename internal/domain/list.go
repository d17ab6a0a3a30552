package domain

import (
	"fmt"
	"strings"
)

// List is a named, ordered container of tasks.
type List struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// NewList constructs an empty list with a trimmed, non-empty name.
func NewList(name string) (List, error) {
	name, err := normalizeName(name)
	if err != nil {
		return List{}, err
	}
	return List{Name: name, Tasks: []Task{}}, nil
}

// Rename renames the list.
func (l *List) Rename(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	l.Name = name
	return nil
}

// TaskIndex returns the index of the task with an exact name match, or -1.
func (l List) TaskIndex(name string) int {
	for idx, task := range l.Tasks {
		if task.Name == name {
			return idx
		}
	}
	return -1
}

// HasTaskNamed reports whether a task other than the one at except carries name.
// Pass -1 to check every task.
func (l List) HasTaskNamed(name string, except int) bool {
	for idx, task := range l.Tasks {
		if idx != except && task.Name == name {
			return true
		}
	}
	return false
}

// Progress returns the number of completed tasks and the total.
func (l List) Progress() (done, total int) {
	for _, task := range l.Tasks {
		if task.Completed {
			done++
		}
	}
	return done, len(l.Tasks)
}

// Clone deep-copies the list.
func (l List) Clone() List {
	tasks := make([]Task, len(l.Tasks))
	copy(tasks, l.Tasks)
	return List{Name: l.Name, Tasks: tasks}
}

// CloneLists deep-copies a collection so callers cannot alias task slices.
func CloneLists(lists []List) []List {
	out := make([]List, len(lists))
	for idx, list := range lists {
		out[idx] = list.Clone()
	}
	return out
}

// ListIndex returns the index of the list with an exact name match, or -1.
func ListIndex(lists []List, name string) int {
	for idx, list := range lists {
		if list.Name == name {
			return idx
		}
	}
	return -1
}

// ValidateLists checks a loaded collection: every name is non-blank, list
// names are unique, and task names are unique within their list.
func ValidateLists(lists []List) error {
	seenLists := make(map[string]struct{}, len(lists))
	for listIdx, list := range lists {
		if strings.TrimSpace(list.Name) == "" {
			return fmt.Errorf("%w: list %d has a blank name", ErrInvalidName, listIdx)
		}
		if _, ok := seenLists[list.Name]; ok {
			return fmt.Errorf("%w: list %q appears more than once", ErrDuplicateRecord, list.Name)
		}
		seenLists[list.Name] = struct{}{}

		seenTasks := make(map[string]struct{}, len(list.Tasks))
		for taskIdx, task := range list.Tasks {
			if strings.TrimSpace(task.Name) == "" {
				return fmt.Errorf("%w: task %d in %q has a blank name", ErrInvalidName, taskIdx, list.Name)
			}
			if _, ok := seenTasks[task.Name]; ok {
				return fmt.Errorf("%w: task %q appears more than once in %q", ErrDuplicateRecord, task.Name, list.Name)
			}
			seenTasks[task.Name] = struct{}{}
		}
	}
	return nil
}
