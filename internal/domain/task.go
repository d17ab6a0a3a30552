package domain

import "strings"

// Task is one checkable item owned by a List.
type Task struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// NewTask constructs an open task with a trimmed, non-empty name.
func NewTask(name string) (Task, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Task{}, err
	}
	return Task{Name: name}, nil
}

// Rename renames the task.
func (t *Task) Rename(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	t.Name = name
	return nil
}

// Toggle flips the completion flag.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}

// NormalizeName trims a candidate list or task name and rejects blank values.
func NormalizeName(name string) (string, error) {
	return normalizeName(name)
}

// normalizeName normalizes name.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}
