package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/lists/internal/app"
	"github.com/evanschultz/lists/internal/domain"
)

type fakeStore struct {
	lists   []domain.List
	saveErr error
	saves   int
}

func (f *fakeStore) Load(context.Context) ([]domain.List, error) {
	return domain.CloneLists(f.lists), nil
}

func (f *fakeStore) Save(_ context.Context, lists []domain.List) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.lists = domain.CloneLists(lists)
	return nil
}

func newTestModel(t *testing.T, store *fakeStore, opts ...Option) Model {
	t.Helper()
	state, err := app.Open(context.Background(), store)
	if err != nil {
		t.Fatalf("app.Open() error = %v", err)
	}
	return loadReadyModel(t, NewModel(state, opts...))
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = applyMsg(t, m, keyRune(r))
	}
	return m
}

func rendered(m Model) string {
	return ansi.Strip(m.render())
}

func TestModelGroceriesFlow(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('n'))
	if m.state.Mode() != app.ModeCreatingList {
		t.Fatalf("expected creating-list mode, got %v", m.state.Mode())
	}
	m = typeText(t, m, "Groceries")
	if out := rendered(m); !strings.Contains(out, "Creating new list. Name: Groceries") {
		t.Fatalf("expected prompt with buffer, got\n%s", out)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.Mode() != app.ModeNormal || m.state.Input() != "" {
		t.Fatalf("expected normal mode with empty buffer, got %v %q", m.state.Mode(), m.state.Input())
	}

	m = applyMsg(t, m, keyRune('N'))
	m = typeText(t, m, "Milk")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})

	if len(store.lists) != 1 || store.lists[0].Name != "Groceries" {
		t.Fatalf("unexpected stored lists %#v", store.lists)
	}
	if len(store.lists[0].Tasks) != 1 || !store.lists[0].Tasks[0].Completed {
		t.Fatalf("expected completed Milk task, got %#v", store.lists[0].Tasks)
	}

	out := rendered(m)
	for _, want := range []string{"Lists (1)", "Groceries", "Tasks 1/1", "✅ Milk"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view, got\n%s", want, out)
		}
	}

	m = applyMsg(t, m, keyRune('N'))
	m = typeText(t, m, "Milk")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(m.status, "duplicate name") || !m.statusErr {
		t.Fatalf("expected duplicate error on status line, got %q", m.status)
	}
	if len(store.lists[0].Tasks) != 1 {
		t.Fatalf("expected duplicate task rejected, got %#v", store.lists[0].Tasks)
	}
}

func TestModelCreateTaskWithoutListShowsError(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('N'))
	if m.state.Mode() != app.ModeCreatingTask {
		t.Fatalf("expected creating-task mode, got %v", m.state.Mode())
	}
	m = typeText(t, m, "X")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.Mode() != app.ModeNormal {
		t.Fatalf("expected normal mode, got %v", m.state.Mode())
	}
	if m.status != "error: no list selected" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if store.saves != 0 {
		t.Fatalf("expected no saves, got %d", store.saves)
	}
}

func TestModelTextEntryEditing(t *testing.T) {
	m := newTestModel(t, &fakeStore{})

	m = applyMsg(t, m, keyRune('n'))
	m = typeText(t, m, "abq")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	m = applyMsg(t, m, tea.PasteMsg{Content: "x\ny"})
	if got := m.state.Input(); got != "ab x y" {
		t.Fatalf("unexpected buffer %q", got)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.state.Mode() != app.ModeNormal || m.state.Input() != "" {
		t.Fatalf("expected cancel to reset mode and buffer, got %v %q", m.state.Mode(), m.state.Input())
	}
	if len(m.state.Lists()) != 0 {
		t.Fatalf("expected no list created on cancel, got %#v", m.state.Lists())
	}
}

func TestModelPasteIgnoredInNormalMode(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	m = applyMsg(t, m, tea.PasteMsg{Content: "hello"})
	if m.state.Input() != "" {
		t.Fatalf("expected paste ignored in normal mode, got %q", m.state.Input())
	}
}

func TestModelEditAndDeleteAreGatedOnSelection(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	for _, r := range []rune{'e', 'E', 'd', 'D'} {
		m = applyMsg(t, m, keyRune(r))
		if m.state.Mode() != app.ModeNormal {
			t.Fatalf("expected %q to be ignored without selection, got %v", r, m.state.Mode())
		}
	}

	store := &fakeStore{lists: []domain.List{{Name: "A", Tasks: []domain.Task{}}}}
	m = newTestModel(t, store)
	m = applyMsg(t, m, keyRune('E'))
	if m.state.Mode() != app.ModeNormal {
		t.Fatalf("expected E ignored without a task, got %v", m.state.Mode())
	}
	m = applyMsg(t, m, keyRune('e'))
	if m.state.Mode() != app.ModeEditingList {
		t.Fatalf("expected editing-list mode, got %v", m.state.Mode())
	}
}

func TestModelEditList(t *testing.T) {
	store := &fakeStore{lists: []domain.List{{Name: "A"}, {Name: "B"}}}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('e'))
	m = typeText(t, m, "B")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(m.status, "duplicate name") {
		t.Fatalf("expected duplicate error, got %q", m.status)
	}

	m = applyMsg(t, m, keyRune('e'))
	m = typeText(t, m, "Alpha")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if store.lists[0].Name != "Alpha" {
		t.Fatalf("expected renamed list, got %#v", store.lists)
	}
	if m.status != "list renamed" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelDeleteConfirmation(t *testing.T) {
	store := &fakeStore{lists: []domain.List{
		{Name: "A", Tasks: []domain.Task{{Name: "a1"}, {Name: "a2"}}},
		{Name: "B"},
	}}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('D'))
	if m.state.Mode() != app.ModeConfirmDeleteTask {
		t.Fatalf("expected confirm-delete-task, got %v", m.state.Mode())
	}
	if out := rendered(m); !strings.Contains(out, "Delete task? (y/n)") {
		t.Fatalf("expected confirm prompt, got\n%s", out)
	}
	m = applyMsg(t, m, keyRune('n'))
	if m.state.Mode() != app.ModeNormal || len(store.lists[0].Tasks) != 2 {
		t.Fatalf("expected n to cancel, got mode %v", m.state.Mode())
	}
	if store.saves != 0 {
		t.Fatalf("expected no saves on cancel, got %d", store.saves)
	}

	m = applyMsg(t, m, keyRune('D'))
	m = applyMsg(t, m, keyRune('y'))
	if len(store.lists[0].Tasks) != 1 || store.lists[0].Tasks[0].Name != "a2" {
		t.Fatalf("expected a1 deleted, got %#v", store.lists[0].Tasks)
	}

	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if len(store.lists) != 2 {
		t.Fatalf("expected esc to keep list, got %#v", store.lists)
	}

	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, keyRune('y'))
	if len(store.lists) != 1 || store.lists[0].Name != "B" {
		t.Fatalf("expected list A deleted, got %#v", store.lists)
	}
	if m.state.Mode() != app.ModeNormal {
		t.Fatalf("expected normal mode, got %v", m.state.Mode())
	}
}

func TestModelNavigationKeys(t *testing.T) {
	store := &fakeStore{lists: []domain.List{
		{Name: "A", Tasks: []domain.Task{{Name: "a1"}, {Name: "a2"}}},
		{Name: "B", Tasks: []domain.Task{{Name: "b1"}}},
	}}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('l'))
	if idx, _ := m.state.SelectedTaskIndex(); idx != 1 {
		t.Fatalf("expected task 1 after l, got %d", idx)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyLeft})
	if idx, _ := m.state.SelectedTaskIndex(); idx != 0 {
		t.Fatalf("expected task 0 after left, got %d", idx)
	}
	m = applyMsg(t, m, keyRune('k'))
	if idx, _ := m.state.SelectedListIndex(); idx != 1 {
		t.Fatalf("expected list 1 after k, got %d", idx)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyUp})
	if idx, _ := m.state.SelectedListIndex(); idx != 0 {
		t.Fatalf("expected list 0 after up, got %d", idx)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, keyRune('i'))
	if idx, _ := m.state.SelectedListIndex(); idx != 0 {
		t.Fatalf("expected list 0 after i, got %d", idx)
	}
	m = applyMsg(t, m, keyRune('j'))
	if idx, _ := m.state.SelectedTaskIndex(); idx != 0 {
		t.Fatalf("expected clamp at task 0, got %d", idx)
	}
}

func TestModelIgnoresRepeatsAndUnknownKeys(t *testing.T) {
	store := &fakeStore{lists: []domain.List{{Name: "A"}, {Name: "B"}}}
	m := newTestModel(t, store)

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'k', Text: "k", IsRepeat: true})
	if idx, _ := m.state.SelectedListIndex(); idx != 0 {
		t.Fatalf("expected repeat ignored, got list %d", idx)
	}
	m = applyMsg(t, m, tea.KeyReleaseMsg{Code: 'k', Text: "k"})
	if idx, _ := m.state.SelectedListIndex(); idx != 0 {
		t.Fatalf("expected release ignored, got list %d", idx)
	}
	m = applyMsg(t, m, keyRune('z'))
	if m.state.Mode() != app.ModeNormal || store.saves != 0 {
		t.Fatalf("expected unknown key ignored, got mode %v saves %d", m.state.Mode(), store.saves)
	}
}

func TestModelQuitSavesAndQuits(t *testing.T) {
	store := &fakeStore{lists: []domain.List{{Name: "A"}}}
	m := newTestModel(t, store)

	updated, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if store.saves != 1 {
		t.Fatalf("expected final save on quit, got %d", store.saves)
	}
	if err := updated.(Model).Err(); err != nil {
		t.Fatalf("expected clean quit, got %v", err)
	}
}

func TestModelPersistFailureIsFatal(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(t, store)
	store.saveErr = errors.New("disk full")

	m = applyMsg(t, m, keyRune('n'))
	m = typeText(t, m, "A")
	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command after persistence failure")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	err := updated.(Model).Err()
	if !errors.Is(err, app.ErrPersist) {
		t.Fatalf("expected app.ErrPersist, got %v", err)
	}

	after := applyMsg(t, updated.(Model), keyRune('n'))
	if after.state.Mode() != app.ModeNormal {
		t.Fatalf("expected input ignored after fatal error, got %v", after.state.Mode())
	}
}

func TestModelCopyListToClipboard(t *testing.T) {
	var copied string
	store := &fakeStore{lists: []domain.List{{Name: "Groceries", Tasks: []domain.Task{{Name: "Milk", Completed: true}}}}}
	m := newTestModel(t, store, WithClipboard(func(text string) error {
		copied = text
		return nil
	}))

	m = applyMsg(t, m, keyRune('y'))
	if copied != "# Groceries\n\n- [x] Milk\n" {
		t.Fatalf("unexpected clipboard text %q", copied)
	}
	if !strings.Contains(m.status, "copied") {
		t.Fatalf("unexpected status %q", m.status)
	}

	failing := newTestModel(t, store, WithClipboard(func(string) error {
		return errors.New("no clipboard")
	}))
	failing = applyMsg(t, failing, keyRune('y'))
	if !failing.statusErr || !strings.Contains(failing.status, "no clipboard") {
		t.Fatalf("expected clipboard error on status line, got %q", failing.status)
	}
	if failing.Err() != nil {
		t.Fatalf("expected clipboard failure to be non-fatal, got %v", failing.Err())
	}
}

func TestModelHelpToggleAndGlyphs(t *testing.T) {
	store := &fakeStore{lists: []domain.List{{Name: "A", Tasks: []domain.Task{{Name: "open"}, {Name: "shut", Completed: true}}}}}
	m := newTestModel(t, store, WithUIConfig(UIConfig{DoneGlyph: "[x]", PendingGlyph: "[ ]"}))

	out := rendered(m)
	if !strings.Contains(out, "[ ] open") || !strings.Contains(out, "[x] shut") {
		t.Fatalf("expected configured glyphs, got\n%s", out)
	}
	if strings.Contains(out, "previous task") {
		t.Fatalf("expected short help by default, got\n%s", out)
	}
	m = applyMsg(t, m, keyRune('?'))
	if out := rendered(m); !strings.Contains(out, "previous task") {
		t.Fatalf("expected full help after ?, got\n%s", out)
	}
}

func TestWithUIConfigIgnoresInvalidValues(t *testing.T) {
	m := NewModel(nil, WithUIConfig(UIConfig{ListPanelPercent: 5}))
	if m.ui != DefaultUIConfig() {
		t.Fatalf("expected defaults kept, got %#v", m.ui)
	}
	m = NewModel(nil, WithUIConfig(UIConfig{ListPanelPercent: 50}))
	if m.ui.ListPanelPercent != 50 {
		t.Fatalf("expected percent applied, got %d", m.ui.ListPanelPercent)
	}
}

func TestViewBeforeWindowSize(t *testing.T) {
	state, err := app.Open(context.Background(), &fakeStore{})
	if err != nil {
		t.Fatalf("app.Open() error = %v", err)
	}
	m := NewModel(state)
	if got := m.render(); got != "loading..." {
		t.Fatalf("expected loading view, got %q", got)
	}
	if v := m.View(); !v.AltScreen {
		t.Fatal("expected alt screen view")
	}
}

func TestWindowBounds(t *testing.T) {
	if start, end := windowBounds(3, 1, 10); start != 0 || end != 3 {
		t.Fatalf("unexpected bounds %d %d", start, end)
	}
	if start, end := windowBounds(20, 19, 5); start != 15 || end != 20 {
		t.Fatalf("unexpected bounds %d %d", start, end)
	}
	if start, end := windowBounds(20, 10, 4); start != 8 || end != 12 {
		t.Fatalf("unexpected bounds %d %d", start, end)
	}
}

func TestTruncateCountsCells(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"Groceries", 20, "Groceries"},
		{"abcdef", 4, "abc…"},
		{"✅ 牛乳を買う", 7, "✅ 牛…"},
		{"牛乳", 0, ""},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.limit)
		if got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
		if w := ansi.StringWidth(got); w > tc.limit {
			t.Fatalf("truncate(%q, %d) is %d cells wide", tc.in, tc.limit, w)
		}
	}
}

func TestModelTruncatesWideTaskNames(t *testing.T) {
	store := &fakeStore{lists: []domain.List{{
		Name:  "買い物",
		Tasks: []domain.Task{{Name: strings.Repeat("牛乳", 30), Completed: true}},
	}}}
	out := rendered(newTestModel(t, store))
	if !strings.Contains(out, "…") {
		t.Fatalf("expected wide task name to be truncated, got %q", out)
	}
	if strings.Contains(out, strings.Repeat("牛乳", 30)) {
		t.Fatalf("expected full task name to be cut, got %q", out)
	}
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
