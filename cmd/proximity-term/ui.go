package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/game"
)

// line is one row of screen text with a single style.
type line struct {
	text  string
	style tcell.Style
}

var (
	styleTitle = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleInput = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMsg   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHint  = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleDim   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWin   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
)

// proximityStyle colours a guess from cold (blue) to hot (red).
func proximityStyle(p int) tcell.Style {
	switch {
	case p >= 100:
		return styleWin
	case p >= 80:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case p >= 60:
		return tcell.StyleDefault.Foreground(tcell.ColorOrange)
	case p >= 40:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	}
}

// bar renders p (0-100) as a bar of the given width.
func bar(p, width int) string {
	if width <= 0 {
		return ""
	}
	p = max(0, min(100, p))
	filled := p * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// view lays out the whole screen for a snapshot. It is pure so it can be tested.
func view(cat category.Category, snap game.Snapshot, input, msg string, width, height int) []line {
	var out []line

	header := fmt.Sprintf("%s %s  ·  %s", cat.Icon, cat.DisplayName, snap.Mode)
	if snap.Mode == game.ModeSpeedrun {
		header += fmt.Sprintf("  ·  %s left  ·  %d solved", fmtClock(snap.Remaining), snap.WordsGuessed)
	}
	out = append(out, line{header, styleTitle}, line{"", styleDim})

	switch snap.State {
	case game.StateWon:
		out = append(out, line{fmt.Sprintf("You got it: %s  (Ctrl-N new game, Esc quit)", snap.Target), styleWin})
	case game.StateTimedOut:
		out = append(out, line{fmt.Sprintf("Time! %d solved. Last word was %s  (Ctrl-N new game, Esc quit)", snap.WordsGuessed, snap.Target), styleWin})
	default:
		out = append(out, line{"> " + input + "_", styleInput})
	}
	out = append(out, line{msg, styleMsg})

	switch {
	case snap.CurrentHint != "":
		out = append(out, line{"Hint: " + snap.CurrentHint, styleHint})
	case snap.HintsEnabled:
		out = append(out, line{"Hints on (Tab to hide)", styleDim})
	default:
		out = append(out, line{"Hints off (Tab to show)", styleDim})
	}
	out = append(out, line{"", styleDim})

	barWidth := max(10, min(40, width-30))
	for _, g := range snap.Guesses {
		if len(out) >= height {
			break
		}
		out = append(out, line{
			fmt.Sprintf("%-20.20s %3d %s", g.Word, g.Proximity, bar(g.Proximity, barWidth)),
			proximityStyle(g.Proximity),
		})
	}
	return out
}

func fmtClock(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// draw paints lines onto the screen, clipping to its size.
func draw(screen tcell.Screen, lines []line) {
	screen.Clear()
	w, h := screen.Size()
	for y, l := range lines {
		if y >= h {
			break
		}
		x := 0
		for _, r := range l.text {
			if x >= w {
				break
			}
			screen.SetContent(x, y, r, nil, l.style)
			x++
		}
	}
	screen.Show()
}
