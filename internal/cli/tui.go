package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sectorviz/sectorviz/pkg/disk"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// trackRow is one selectable line in the track browser.
type trackRow struct {
	Side  int
	Track int
}

// TrackListModel is the bubbletea model for interactive track browsing.
// Arrow keys move the cursor, enter toggles a per-element detail view of
// the highlighted track, q quits.
type TrackListModel struct {
	Disk     *disk.Disk
	Rows     []trackRow
	Cursor   int
	Expanded bool
	Height   int
	Offset   int
}

// NewTrackListModel creates a track browser over every side of the disk.
func NewTrackListModel(d *disk.Disk) TrackListModel {
	var rows []trackRow
	for si, s := range d.Sides {
		for ti := range s.Tracks {
			rows = append(rows, trackRow{Side: si, Track: ti})
		}
	}
	return TrackListModel{
		Disk:   d,
		Rows:   rows,
		Height: 20,
	}
}

func (m TrackListModel) Init() tea.Cmd {
	return nil
}

func (m TrackListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Expanded = false
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				m.Expanded = false
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Expanded = !m.Expanded
		}
	case tea.WindowSizeMsg:
		if msg.Height > 6 {
			m.Height = msg.Height - 6
		}
	}
	return m, nil
}

func (m TrackListModel) View() string {
	var b strings.Builder

	name := m.Disk.Name
	if name == "" {
		name = "disk listing"
	}
	b.WriteString(StyleTitle.Render(name) + "\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d sides · %d tracks", m.Disk.SideCount(), m.Disk.TrackCount())) + "\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]
		t := m.Disk.Sides[row.Side].Tracks[row.Track]

		line := fmt.Sprintf("side %d track %2d  %3d elements, %d masks",
			row.Side, row.Track, len(t.Elements), len(t.Masks))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("> "+line) + "\n")
			if m.Expanded {
				b.WriteString(trackDetail(t))
			}
		} else {
			b.WriteString(listNormalStyle.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + listDimStyle.Render("↑/↓ move · enter details · q quit") + "\n")
	return b.String()
}

// trackDetail renders the expanded element and mask listing of one track.
func trackDetail(t disk.Track) string {
	var b strings.Builder
	for _, e := range t.Elements {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("    %-24s %.3f – %.3f", e.Kind, e.Start, e.End)) + "\n")
	}
	for _, mk := range t.Masks {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("    %-24s %.3f – %.3f", "mask:"+mk.Kind.String(), mk.Start, mk.End)) + "\n")
	}
	if len(t.Elements) == 0 && len(t.Masks) == 0 {
		b.WriteString(listDimStyle.Render("    (empty track)") + "\n")
	}
	return b.String()
}
