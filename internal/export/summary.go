package export

import (
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/evanschultz/lists/internal/domain"
)

// Summary renders a bordered table with one row per list: name, done, total.
func Summary(lists []domain.List) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	numberStyle := cellStyle.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("List", "Done", "Total").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col > 0:
				return numberStyle
			default:
				return cellStyle
			}
		})

	for _, list := range lists {
		done, total := list.Progress()
		t.Row(list.Name, strconv.Itoa(done), strconv.Itoa(total))
	}
	return t.String()
}
