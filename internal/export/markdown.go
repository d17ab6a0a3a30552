// Package export renders the list collection for output outside the TUI.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evanschultz/lists/internal/domain"
)

// Markdown renders lists as markdown checklists, one heading per list.
func Markdown(lists ...domain.List) string {
	var b strings.Builder
	for idx, list := range lists {
		if idx > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n\n", list.Name)
		if len(list.Tasks) == 0 {
			b.WriteString("_No tasks._\n")
			continue
		}
		for _, task := range list.Tasks {
			mark := " "
			if task.Completed {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, task.Name)
		}
	}
	return b.String()
}

// JSON renders the collection in the same pretty layout the JSON store writes.
func JSON(lists []domain.List) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(domain.CloneLists(lists)); err != nil {
		return nil, fmt.Errorf("encode lists: %w", err)
	}
	return buf.Bytes(), nil
}
