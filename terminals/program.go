package terminals

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reusee/tutor/playbacks"
)

// NewProgram returns a program showing player. Changes of the player, timed
// advances included, are delivered to the program with Send.
func NewProgram(player *playbacks.Player, title string, source string, options ...tea.ProgramOption) *tea.Program {
	model := NewModel(player, title, source)
	program := tea.NewProgram(model, options...)
	player.OnChange(func(playbacks.Status) {
		// observers may run inside Update, which blocks Send
		go program.Send(changedMsg{})
	})
	return program
}
