package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

// Timeframe is a preset period of the transaction filter.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

var timeframeNames = map[Timeframe]string{
	TimeframeThisWeek:  "This Week",
	TimeframeLastWeek:  "Last Week",
	TimeframeThisMonth: "This Month",
	TimeframeLastMonth: "Last Month",
	TimeframeAll:       "All Time",
	TimeframeCustom:    "Custom Range",
}

func (t Timeframe) String() string {
	if name, ok := timeframeNames[t]; ok {
		return name
	}

	return "Unknown"
}

// timeframeToDateRange returns the inclusive day range of tf relative to now. Weeks start on Monday.
func timeframeToDateRange(tf Timeframe, now time.Time) (start, end finance.Date) {
	today := finance.DateOf(now)

	// Days since Monday.
	sinceMonday := (int(now.Weekday()) + 6) % 7

	switch tf {
	case TimeframeThisWeek:
		return finance.DateOf(today.AddDate(0, 0, -sinceMonday)), today
	case TimeframeLastWeek:
		end = finance.DateOf(today.AddDate(0, 0, -sinceMonday-1))
		return finance.DateOf(end.AddDate(0, 0, -6)), end
	case TimeframeThisMonth:
		return finance.NewDate(now.Year(), now.Month(), 1), today
	case TimeframeLastMonth:
		start = finance.NewDate(now.Year(), now.Month()-1, 1)
		return start, finance.DateOf(start.AddDate(0, 1, -1))
	}

	return finance.Date{}, finance.Date{}
}

// TimeframeSelectedMsg is emitted once a period is chosen. Start and End are unset when All is true.
type TimeframeSelectedMsg struct {
	Start finance.Date
	End   finance.Date
	All   bool
}

// TimeframePicker lets the user pick a preset period or type a custom range.
type TimeframePicker struct {
	frames []Timeframe
	cursor int

	custom *huh.Form
	err    error
}

// NewTimeframePicker offers every period from first onwards.
func NewTimeframePicker(first Timeframe) TimeframePicker {
	var frames []Timeframe
	for tf := first; tf <= TimeframeCustom; tf++ {
		frames = append(frames, tf)
	}

	return TimeframePicker{frames: frames}
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.custom != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(len(m.frames)-1, m.cursor+1)
	case "enter":
		return m.choose(m.frames[m.cursor])
	}

	return m, nil
}

func (m TimeframePicker) choose(tf Timeframe) (TimeframePicker, tea.Cmd) {
	switch tf {
	case TimeframeCustom:
		m.custom = customRangeForm()
		m.err = nil

		return m, m.custom.Init()
	case TimeframeAll:
		return m, selected(TimeframeSelectedMsg{All: true})
	}

	start, end := timeframeToDateRange(tf, time.Now())

	return m, selected(TimeframeSelectedMsg{Start: start, End: end})
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.custom = nil
		m.err = nil

		return m, nil
	}

	form, cmd := m.custom.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.custom = f
	}

	if m.custom.State != huh.StateCompleted {
		return m, cmd
	}

	start, end, err := parseRange(m.custom.GetString("start"), m.custom.GetString("end"))
	if err != nil {
		m.err = err
		m.custom = customRangeForm()

		return m, m.custom.Init()
	}

	m.custom = nil
	m.err = nil

	return m, selected(TimeframeSelectedMsg{Start: start, End: end})
}

func parseRange(startStr, endStr string) (start, end finance.Date, err error) {
	if start, err = finance.ParseDate(strings.TrimSpace(startStr)); err != nil {
		return start, end, fmt.Errorf("invalid start date (YYYY-MM-DD)")
	}

	if end, err = finance.ParseDate(strings.TrimSpace(endStr)); err != nil {
		return start, end, fmt.Errorf("invalid end date (YYYY-MM-DD)")
	}

	if end.Before(start.Time) {
		return start, end, errors.New("end date is before start date")
	}

	return start, end, nil
}

func customRangeForm() *huh.Form {
	validDate := func(s string) error {
		_, err := finance.ParseDate(strings.TrimSpace(s))
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("start").Title("Start Date").Placeholder("YYYY-MM-DD").Validate(validDate),
			huh.NewInput().Key("end").Title("End Date").Placeholder("YYYY-MM-DD").Validate(validDate),
		),
	).WithWidth(40).WithShowHelp(false)
}

func selected(msg TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m TimeframePicker) View() string {
	var b strings.Builder

	if m.custom != nil {
		b.WriteString(titleStyle.Render("Custom Range") + "\n\n")
		b.WriteString(m.custom.View())
		b.WriteString("\n" + faintStyle.Render("(Enter to confirm, Esc to go back)"))
	} else {
		b.WriteString(titleStyle.Render("Select Timeframe") + "\n\n")

		for i, tf := range m.frames {
			cursor := " "
			if i == m.cursor {
				cursor = ">"
			}

			fmt.Fprintf(&b, "%s %s\n", cursor, tf)
		}

		b.WriteString("\n" + faintStyle.Render("(Enter to select, Esc to go back)"))
	}

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return b.String()
}

// IsSelecting reports whether the preset list is showing rather than the custom range form.
func (m TimeframePicker) IsSelecting() bool {
	return m.custom == nil
}

func (m *TimeframePicker) Reset() {
	m.cursor = 0
	m.custom = nil
	m.err = nil
}
