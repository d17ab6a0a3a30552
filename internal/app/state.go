package app

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/evanschultz/lists/internal/domain"
)

// noSelection marks an absent list or task selection.
const noSelection = -1

// Option configures a State.
type Option func(*State)

// WithLogger routes state events to logger.
func WithLogger(logger Logger) Option {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// State owns the list collection, the current selections, the interaction
// mode and the text input buffer. Every mutating operation ends with a full
// synchronous save through the Store.
type State struct {
	store  Store
	logger Logger

	lists        []domain.List
	selectedList int
	selectedTask int

	mode  Mode
	input string
}

// Snapshot is a read-only copy of State for presentation.
// SelectedList and SelectedTask are -1 when nothing is selected.
type Snapshot struct {
	Lists        []domain.List
	SelectedList int
	SelectedTask int
	Mode         Mode
	Input        string
}

// Open loads the stored collection and builds the initial state.
// Corrupt storage falls back to an empty collection.
func Open(ctx context.Context, store Store, opts ...Option) (*State, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	s := &State{
		store:        store,
		logger:       NopLogger{},
		selectedList: noSelection,
		selectedTask: noSelection,
		mode:         ModeNormal,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	lists, err := store.Load(ctx)
	if err == nil {
		if verr := domain.ValidateLists(lists); verr != nil {
			err = fmt.Errorf("%w: %w", ErrStorageCorrupt, verr)
		}
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrStorageCorrupt):
		s.logger.Warn("stored lists unreadable, starting empty", "err", err)
		lists = nil
	default:
		return nil, fmt.Errorf("load lists: %w", err)
	}

	s.lists = domain.CloneLists(lists)
	if len(s.lists) > 0 {
		s.selectedList = 0
	}
	s.resetTaskSelection()
	s.logger.Info("lists loaded", "lists", len(s.lists))
	return s, nil
}

// Lists returns a copy of the collection.
func (s *State) Lists() []domain.List {
	return domain.CloneLists(s.lists)
}

// SelectedListIndex returns the selected list index, if any.
func (s *State) SelectedListIndex() (int, bool) {
	if s.selectedList == noSelection {
		return 0, false
	}
	return s.selectedList, true
}

// SelectedTaskIndex returns the selected task index, if any.
func (s *State) SelectedTaskIndex() (int, bool) {
	if s.selectedTask == noSelection {
		return 0, false
	}
	return s.selectedTask, true
}

// SelectedList returns a copy of the selected list.
func (s *State) SelectedList() (domain.List, bool) {
	if s.selectedList == noSelection {
		return domain.List{}, false
	}
	return s.lists[s.selectedList].Clone(), true
}

// SelectedTask returns the selected task.
func (s *State) SelectedTask() (domain.Task, bool) {
	if s.selectedList == noSelection || s.selectedTask == noSelection {
		return domain.Task{}, false
	}
	return s.lists[s.selectedList].Tasks[s.selectedTask], true
}

// Mode returns the active interaction mode.
func (s *State) Mode() Mode {
	return s.mode
}

// SetMode switches the interaction mode. The input buffer is left untouched.
func (s *State) SetMode(mode Mode) {
	if s.mode != mode {
		s.logger.Debug("mode changed", "from", s.mode, "to", mode)
	}
	s.mode = mode
}

// ResetMode returns to ModeNormal and discards the input buffer.
func (s *State) ResetMode() {
	s.SetMode(ModeNormal)
	s.input = ""
}

// Input returns the text input buffer.
func (s *State) Input() string {
	return s.input
}

// AppendInput appends text to the input buffer.
func (s *State) AppendInput(text string) {
	s.input += text
}

// Backspace removes the last rune of the input buffer.
func (s *State) Backspace() {
	if s.input == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.input)
	s.input = s.input[:len(s.input)-size]
}

// ClearInput empties the input buffer.
func (s *State) ClearInput() {
	s.input = ""
}

// Snapshot copies the state for rendering.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Lists:        domain.CloneLists(s.lists),
		SelectedList: s.selectedList,
		SelectedTask: s.selectedTask,
		Mode:         s.mode,
		Input:        s.input,
	}
}

// SelectNextList moves the list selection down by one. A clamped move keeps
// the task selection.
func (s *State) SelectNextList() {
	if s.selectedList != noSelection && s.selectedList+1 < len(s.lists) {
		s.selectedList++
		s.resetTaskSelection()
	}
}

// SelectPreviousList moves the list selection up by one.
func (s *State) SelectPreviousList() {
	if s.selectedList != noSelection && s.selectedList > 0 {
		s.selectedList--
		s.resetTaskSelection()
	}
}

// SelectNextTask moves the task selection down by one, or onto the first
// task when nothing is selected yet.
func (s *State) SelectNextTask() {
	if s.selectedList == noSelection {
		return
	}
	tasks := s.lists[s.selectedList].Tasks
	switch {
	case len(tasks) == 0:
	case s.selectedTask == noSelection:
		s.selectedTask = 0
	case s.selectedTask+1 < len(tasks):
		s.selectedTask++
	}
}

// SelectPreviousTask moves the task selection up by one.
func (s *State) SelectPreviousTask() {
	if s.selectedTask != noSelection && s.selectedTask > 0 {
		s.selectedTask--
	}
}

// CreateList appends a new list and selects it.
func (s *State) CreateList(ctx context.Context, name string) error {
	list, err := domain.NewList(name)
	if err != nil {
		return err
	}
	if domain.ListIndex(s.lists, list.Name) >= 0 {
		return fmt.Errorf("%w: a list named %q already exists", ErrDuplicateName, list.Name)
	}

	s.lists = append(s.lists, list)
	s.selectedList = len(s.lists) - 1
	s.resetTaskSelection()
	s.logger.Info("list created", "list", list.Name)
	return s.save(ctx)
}

// EditSelectedList renames the selected list.
func (s *State) EditSelectedList(ctx context.Context, name string) error {
	if s.selectedList == noSelection {
		return ErrNoListSelected
	}
	name, err := domain.NormalizeName(name)
	if err != nil {
		return err
	}
	if idx := domain.ListIndex(s.lists, name); idx >= 0 && idx != s.selectedList {
		return fmt.Errorf("%w: a list named %q already exists", ErrDuplicateName, name)
	}

	list := &s.lists[s.selectedList]
	old := list.Name
	if err := list.Rename(name); err != nil {
		return err
	}
	s.logger.Info("list renamed", "from", old, "to", list.Name)
	return s.save(ctx)
}

// DeleteSelectedList removes the selected list and its tasks.
func (s *State) DeleteSelectedList(ctx context.Context) error {
	if s.selectedList == noSelection {
		return ErrNoListSelected
	}

	idx := s.selectedList
	removed := s.lists[idx].Name
	s.lists = append(s.lists[:idx], s.lists[idx+1:]...)
	switch {
	case len(s.lists) == 0:
		s.selectedList = noSelection
	case idx >= len(s.lists):
		s.selectedList = len(s.lists) - 1
	}
	s.resetTaskSelection()
	s.logger.Info("list deleted", "list", removed)
	return s.save(ctx)
}

// AddTaskToSelectedList appends an open task to the selected list and selects it.
func (s *State) AddTaskToSelectedList(ctx context.Context, name string) error {
	if s.selectedList == noSelection {
		return ErrNoListSelected
	}
	task, err := domain.NewTask(name)
	if err != nil {
		return err
	}
	list := &s.lists[s.selectedList]
	if list.HasTaskNamed(task.Name, -1) {
		return fmt.Errorf("%w: a task named %q already exists in %q", ErrDuplicateName, task.Name, list.Name)
	}

	list.Tasks = append(list.Tasks, task)
	s.selectedTask = len(list.Tasks) - 1
	s.logger.Info("task added", "list", list.Name, "task", task.Name)
	return s.save(ctx)
}

// EditSelectedTask renames the selected task.
func (s *State) EditSelectedTask(ctx context.Context, name string) error {
	if s.selectedList == noSelection || s.selectedTask == noSelection {
		return ErrNoTaskSelected
	}
	name, err := domain.NormalizeName(name)
	if err != nil {
		return err
	}
	list := &s.lists[s.selectedList]
	if list.HasTaskNamed(name, s.selectedTask) {
		return fmt.Errorf("%w: a task named %q already exists in %q", ErrDuplicateName, name, list.Name)
	}

	task := &list.Tasks[s.selectedTask]
	old := task.Name
	if err := task.Rename(name); err != nil {
		return err
	}
	s.logger.Info("task renamed", "list", list.Name, "from", old, "to", task.Name)
	return s.save(ctx)
}

// DeleteSelectedTask removes the selected task.
func (s *State) DeleteSelectedTask(ctx context.Context) error {
	if s.selectedList == noSelection || s.selectedTask == noSelection {
		return ErrNoTaskSelected
	}

	list := &s.lists[s.selectedList]
	idx := s.selectedTask
	removed := list.Tasks[idx].Name
	list.Tasks = append(list.Tasks[:idx], list.Tasks[idx+1:]...)
	switch {
	case len(list.Tasks) == 0:
		s.selectedTask = noSelection
	case idx >= len(list.Tasks):
		s.selectedTask = len(list.Tasks) - 1
	}
	s.logger.Info("task deleted", "list", list.Name, "task", removed)
	return s.save(ctx)
}

// ToggleSelectedTaskStatus flips the completion flag of the selected task.
func (s *State) ToggleSelectedTaskStatus(ctx context.Context) error {
	if s.selectedList == noSelection || s.selectedTask == noSelection {
		return ErrNoTaskSelected
	}

	task := &s.lists[s.selectedList].Tasks[s.selectedTask]
	task.Toggle()
	s.logger.Debug("task toggled", "task", task.Name, "completed", task.Completed)
	return s.save(ctx)
}

// Save writes the full collection.
func (s *State) Save(ctx context.Context) error {
	return s.save(ctx)
}

// save writes the full collection and tags failures with ErrPersist.
func (s *State) save(ctx context.Context) error {
	if err := s.store.Save(ctx, domain.CloneLists(s.lists)); err != nil {
		s.logger.Error("save lists failed", "err", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// resetTaskSelection points the task selection at the first task of the
// selected list, or clears it.
func (s *State) resetTaskSelection() {
	if s.selectedList == noSelection || len(s.lists[s.selectedList].Tasks) == 0 {
		s.selectedTask = noSelection
		return
	}
	s.selectedTask = 0
}
