package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/NordCoder/Deadswitch/internal/domain/switches"
)

const expiresLayout = "2006-01-02T15:04:05"

var plainTableStyle = table.Style{
	Name: "switchctl",
	Box: table.BoxStyle{
		MiddleHorizontal: "-", // must not be empty
		PaddingRight:     "  ",
	},
	Format: table.FormatOptions{
		Footer: text.FormatUpper,
		Header: text.FormatUpper,
		Row:    text.FormatDefault,
	},
	Options: table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateFooter:  false,
		SeparateHeader:  false,
		SeparateRows:    false,
	},
}

var statusColors = map[string]*color.Color{
	switches.StatusActive:   color.New(color.FgGreen),
	switches.StatusExpired:  color.New(color.FgRed, color.Bold),
	switches.StatusInactive: color.New(color.FgYellow),
}

func colorStatus(s string) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s)
	}
	return s
}

func formatInterval(days int) string {
	if days == 1 {
		return "1 day"
	}
	return strconv.Itoa(days) + " days"
}

func formatExpires(sw *switches.Switch, now time.Time) string {
	if sw.ExpirationDatetime.IsZero() {
		return "never"
	}
	exp := sw.ExpirationDatetime.UTC()
	return fmt.Sprintf("%s (%s)", exp.Format(expiresLayout), humanize.RelTime(exp, now, "ago", "from now"))
}

func writeSwitchTable(w io.Writer, list []*switches.Switch, now time.Time, showID bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if showID {
		t.AppendHeader(table.Row{"NAME", "ID", "STATUS", "INTERVAL", "EXPIRES"})
	} else {
		t.AppendHeader(table.Row{"NAME", "STATUS", "INTERVAL", "EXPIRES"})
	}
	t.SetStyle(plainTableStyle)
	for _, sw := range list {
		row := table.Row{sw.Name}
		if showID {
			row = append(row, sw.ID)
		}
		row = append(row, colorStatus(sw.Status(now)), formatInterval(sw.Interval), formatExpires(sw, now))
		t.AppendRow(row)
	}
	t.Render()
}

func writeSwitchDetail(w io.Writer, sw *switches.Switch, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(plainTableStyle)
	t.AppendRows([]table.Row{
		{"ID", sw.ID},
		{"NAME", sw.Name},
		{"OWNER", sw.UserEmail},
		{"STATUS", colorStatus(sw.Status(now))},
		{"INTERVAL", formatInterval(sw.Interval)},
		{"EXPIRES", formatExpires(sw, now)},
		{"CONTENT", sw.Content},
	})
	t.Render()
}
