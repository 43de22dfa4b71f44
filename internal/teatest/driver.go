// Package teatest drives a bubbletea model synchronously in tests.
//
// Update is called directly and every returned Cmd is run to completion
// before the next input is sent, so assertions see a settled model without
// a tea.Program or any sleeping. Cmds that block (cursor blink timers) are
// abandoned after a short timeout.
package teatest

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

// MaxSteps bounds the Cmds run for one input, guarding against models that
// re-arm a Cmd forever.
const MaxSteps = 1000

// cmdTimeout separates message factories and store calls, which return in
// microseconds, from blink timers, which block for ~500ms.
const cmdTimeout = 10 * time.Millisecond

// Driver owns the model under test.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg is produced. Inputs sent after
	// that are dropped, as a stopped program would.
	Quitting bool
}

// Option configures a Driver in New.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model. Init is not run until DrainInit.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs the model's Init Cmd and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.run(d.Model.Init())
}

// Send delivers msg and settles the model.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd)
}

// SendKey delivers a key event.
func (d *Driver) SendKey(k tea.KeyMsg) {
	d.T.Helper()
	d.Send(k)
}

func (d *Driver) press(t tea.KeyType) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: t})
}

// PressKey types a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter()    { d.T.Helper(); d.press(tea.KeyEnter) }
func (d *Driver) PressEsc()      { d.T.Helper(); d.press(tea.KeyEsc) }
func (d *Driver) PressCtrlC()    { d.T.Helper(); d.press(tea.KeyCtrlC) }
func (d *Driver) PressUp()       { d.T.Helper(); d.press(tea.KeyUp) }
func (d *Driver) PressDown()     { d.T.Helper(); d.press(tea.KeyDown) }
func (d *Driver) PressLeft()     { d.T.Helper(); d.press(tea.KeyLeft) }
func (d *Driver) PressRight()    { d.T.Helper(); d.press(tea.KeyRight) }
func (d *Driver) PressTab()      { d.T.Helper(); d.press(tea.KeyTab) }
func (d *Driver) PressShiftTab() { d.T.Helper(); d.press(tea.KeyShiftTab) }

// View is the model's raw output.
func (d *Driver) View() string {
	return d.Model.View()
}

// Screen is the model's output without styling, for text assertions.
func (d *Driver) Screen() string {
	return xansi.Strip(d.Model.View())
}

// run settles the model depth first: the messages a Cmd leads to are fully
// handled before the next Cmd of the same batch runs, matching the order a
// user would usually observe.
func (d *Driver) run(cmd tea.Cmd) {
	d.T.Helper()
	stack := []tea.Cmd{cmd}
	for steps := 0; len(stack) > 0; steps++ {
		if steps == MaxSteps {
			d.T.Logf("teatest: gave up after %d steps", MaxSteps)
			return
		}
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next == nil {
			continue
		}

		switch msg := runWithTimeout(next).(type) {
		case nil:
		case tea.BatchMsg:
			for i := len(msg) - 1; i >= 0; i-- {
				stack = append(stack, msg[i])
			}
		case tea.QuitMsg:
			d.Quitting = true
			d.Model, _ = d.Model.Update(msg)
			return
		default:
			if isBlink(msg) {
				continue
			}
			var follow tea.Cmd
			d.Model, follow = d.Model.Update(msg)
			stack = append(stack, follow)
		}
	}
}

// runWithTimeout returns nil when cmd does not finish within cmdTimeout.
func runWithTimeout(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink matches the unexported blink messages of bubbles/cursor, which
// would otherwise re-arm a blocking timer.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(reflect.TypeOf(msg).Name()), "blink")
}
