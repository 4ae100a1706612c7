package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mazznoer/colorgrad"
)

// Tint colors the characters of a frame by how heavy they are in the
// palette, so denser water is drawn in a brighter color.
type Tint struct {
	styles map[rune]lipgloss.Style
}

// NewTint builds a Tint for the characters of p using colors from grad.
// Blank characters are never colored.
func NewTint(p *Palette, grad colorgrad.Gradient) *Tint {
	t := &Tint{styles: map[rune]lipgloss.Style{}}
	for k := 0; k < p.Tables(); k++ {
		table := p.Table(k)
		for i, c := range table {
			if c == ' ' {
				continue
			}
			if _, ok := t.styles[c]; ok {
				continue
			}
			pos := float64(i+1) / float64(len(table))
			color := lipgloss.Color(grad.At(pos).Hex())
			t.styles[c] = lipgloss.NewStyle().Foreground(color)
		}
	}
	return t
}

// DefaultTint returns a Tint using the viridis color map.
func DefaultTint(p *Palette) *Tint {
	return NewTint(p, colorgrad.Viridis())
}

// Apply returns frame with every run of identical characters wrapped in its
// color.
func (t *Tint) Apply(frame string) string {
	sb := &strings.Builder{}
	sb.Grow(len(frame) * 4)

	runes := []rune(frame)
	for start := 0; start < len(runes); {
		end := start + 1
		for end < len(runes) && runes[end] == runes[start] {
			end++
		}

		run := string(runes[start:end])
		if style, ok := t.styles[runes[start]]; ok {
			sb.WriteString(style.Render(run))
		} else {
			sb.WriteString(run)
		}
		start = end
	}

	return sb.String()
}
