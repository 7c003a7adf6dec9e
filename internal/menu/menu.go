package menu

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/fresnel/internal/aperture"
	"github.com/san-kum/fresnel/internal/config"
	"github.com/san-kum/fresnel/internal/render"
)

type state int

const (
	stateMode state = iota
	stateDefaults
	stateWavelength
	stateField
	stateShape
	stateDone
)

// Selection is what the user picked for one run.
type Selection struct {
	Mode          string
	Shape         aperture.Kind
	Wavelength    float64
	FieldStrength float64
}

// Apply copies the selection onto cfg.
func (s Selection) Apply(cfg *config.Config) {
	cfg.Mode = s.Mode
	cfg.Shape = s.Shape.String()
	cfg.Wavelength = s.Wavelength
	cfg.FieldStrength = s.FieldStrength
}

type Model struct {
	state state
	sel   Selection
	buf   string
	msg   string
	quit  bool
}

func New() Model {
	return Model{
		sel: Selection{
			Mode:          config.ModeProfile,
			Shape:         aperture.KindSquare,
			Wavelength:    config.DefaultWavelength,
			FieldStrength: config.DefaultFieldStrength,
		},
	}
}

// Selection reports the finished choice; ok is false if the user quit.
func (m Model) Selection() (Selection, bool) {
	return m.sel, m.state == stateDone && !m.quit
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		m.quit = true
		return m, tea.Quit
	}
	m.msg = ""

	switch m.state {
	case stateMode:
		return m.modeKey(key)
	case stateDefaults:
		return m.defaultsKey(key)
	case stateWavelength, stateField:
		return m.numberKey(key)
	case stateShape:
		return m.shapeKey(key)
	}
	return m, nil
}

func (m Model) modeKey(key tea.KeyMsg) (Model, tea.Cmd) {
	switch strings.ToLower(key.String()) {
	case "a":
		m.sel.Mode = config.ModeProfile
		m.state = stateDefaults
	case "b":
		m.sel.Mode = config.ModeMap
		m.state = stateDefaults
	case "q", "esc":
		m.quit = true
		m.state = stateDone
		return m, tea.Quit
	default:
		m.msg = "Invalid choice."
	}
	return m, nil
}

func (m Model) defaultsKey(key tea.KeyMsg) (Model, tea.Cmd) {
	switch strings.ToLower(key.String()) {
	case "y", "enter":
		return m.afterSource()
	case "n":
		m.state = stateWavelength
		m.buf = ""
	case "esc":
		m.state = stateMode
	default:
		m.msg = "Invalid choice."
	}
	return m, nil
}

func (m Model) numberKey(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		v, err := strconv.ParseFloat(strings.TrimSpace(m.buf), 64)
		if err != nil {
			m.msg = fmt.Sprintf("Not a number: %q", m.buf)
			m.buf = ""
			return m, nil
		}
		m.buf = ""
		if m.state == stateWavelength {
			if !(v > 0) {
				m.msg = "Wavelength must be positive."
				return m, nil
			}
			m.sel.Wavelength = v
			m.state = stateField
			return m, nil
		}
		m.sel.FieldStrength = v
		return m.afterSource()
	case "backspace":
		if len(m.buf) > 0 {
			m.buf = m.buf[:len(m.buf)-1]
		}
	case "esc":
		m.buf = ""
		m.state = stateDefaults
	default:
		for _, r := range key.Runes {
			if strings.ContainsRune("0123456789.eE+-", r) {
				m.buf += string(r)
			}
		}
	}
	return m, nil
}

func (m Model) afterSource() (Model, tea.Cmd) {
	if m.sel.Mode == config.ModeMap {
		m.state = stateShape
		return m, nil
	}
	m.state = stateDone
	return m, tea.Quit
}

func (m Model) shapeKey(key tea.KeyMsg) (Model, tea.Cmd) {
	if key.String() == "esc" {
		m.state = stateDefaults
		return m, nil
	}
	k, err := aperture.ParseKind(key.String())
	if err != nil || len(key.String()) != 1 {
		m.msg = "Invalid choice."
		return m, nil
	}
	m.sel.Shape = k
	m.state = stateDone
	return m, tea.Quit
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(render.Title.Render("Fresnel Diffraction"))
	sb.WriteString("\n\n")

	switch m.state {
	case stateMode:
		sb.WriteString("a) graph 1-D diffraction patterns\n")
		sb.WriteString("b) image 2-D diffraction patterns\n")
		sb.WriteString("q) quit\n")
	case stateDefaults:
		fmt.Fprintf(&sb, "Default source: wavelength %g m, field strength %g N/C.\n",
			config.DefaultWavelength, config.DefaultFieldStrength)
		sb.WriteString("Patterns are computed at distances z, 2z and 3z from the aperture.\n\n")
		sb.WriteString("Use default source values? [y/n]\n")
	case stateWavelength:
		fmt.Fprintf(&sb, "Wavelength (m): %s\n", render.Selected.Render(m.buf+"_"))
	case stateField:
		fmt.Fprintf(&sb, "Wavelength %g m\n", m.sel.Wavelength)
		fmt.Fprintf(&sb, "Electric field (N/C): %s\n", render.Selected.Render(m.buf+"_"))
	case stateShape:
		sb.WriteString("Aperture shape:\n")
		for _, k := range aperture.Kinds() {
			fmt.Fprintf(&sb, "%c) %s\n", k.String()[0], k)
		}
	case stateDone:
		return ""
	}

	if m.msg != "" {
		sb.WriteString("\n" + render.Error.Render(m.msg) + "\n")
	}
	sb.WriteString("\n" + render.KeyHint.Render("esc back • ctrl+c quit"))
	return sb.String()
}

// Run shows the menu until the user completes a selection or quits.
func Run(in io.Reader, out io.Writer) (Selection, bool, error) {
	final, err := tea.NewProgram(New(), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return Selection{}, false, err
	}
	sel, ok := final.(Model).Selection()
	return sel, ok, nil
}
