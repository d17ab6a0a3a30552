package tui

import (
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// TestKeyMapLayout verifies the navigation and command keys.
func TestKeyMapLayout(t *testing.T) {
	k := newKeyMap()
	cases := []struct {
		name    string
		msg     tea.KeyPressMsg
		binding key.Binding
	}{
		{"q quits", keyRune('q'), k.quit},
		{"ctrl+c quits", tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}, k.quit},
		{"k next list", keyRune('k'), k.nextList},
		{"down next list", tea.KeyPressMsg{Code: tea.KeyDown}, k.nextList},
		{"i previous list", keyRune('i'), k.previousList},
		{"up previous list", tea.KeyPressMsg{Code: tea.KeyUp}, k.previousList},
		{"l next task", keyRune('l'), k.nextTask},
		{"right next task", tea.KeyPressMsg{Code: tea.KeyRight}, k.nextTask},
		{"j previous task", keyRune('j'), k.previousTask},
		{"left previous task", tea.KeyPressMsg{Code: tea.KeyLeft}, k.previousTask},
		{"space toggles", tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}, k.toggleTask},
		{"N new task", keyRune('N'), k.newTask},
		{"D delete task", keyRune('D'), k.deleteTask},
		{"esc cancels confirm", tea.KeyPressMsg{Code: tea.KeyEscape}, k.confirmNo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !key.Matches(tc.msg, tc.binding) {
				t.Fatalf("expected %q to match %v", tc.msg.String(), tc.binding.Keys())
			}
		})
	}

	if key.Matches(keyRune('n'), k.newTask) {
		t.Fatal("expected lowercase n not to create a task")
	}
}

// TestFullHelpCoversNormalBindings verifies every normal-mode binding is documented.
func TestFullHelpCoversNormalBindings(t *testing.T) {
	k := newKeyMap()
	seen := map[string]bool{}
	for _, group := range k.FullHelp() {
		for _, b := range group {
			seen[b.Help().Desc] = true
		}
	}
	for _, b := range []key.Binding{
		k.quit, k.toggleHelp, k.newList, k.newTask, k.editList, k.editTask,
		k.deleteList, k.deleteTask, k.toggleTask, k.nextList, k.previousList,
		k.nextTask, k.previousTask, k.copyList,
	} {
		if !seen[b.Help().Desc] {
			t.Fatalf("expected %q in full help", b.Help().Desc)
		}
	}
}
