package main

import (
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/game"
)

func TestBar(t *testing.T) {
	tests := []struct {
		p, width int
		filled   int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{150, 10, 10},
		{-5, 10, 0},
		{99, 4, 3},
	}
	for _, tt := range tests {
		got := bar(tt.p, tt.width)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("bar(%d, %d) filled %d, want %d", tt.p, tt.width, n, tt.filled)
		}
		if n := len([]rune(got)); n != tt.width {
			t.Errorf("bar(%d, %d) width %d", tt.p, tt.width, n)
		}
	}
	if bar(50, 0) != "" {
		t.Error("zero width bar should be empty")
	}
}

func TestFmtClock(t *testing.T) {
	if got := fmtClock(65 * time.Second); got != "1:05" {
		t.Errorf("fmtClock = %q", got)
	}
}

func TestViewActiveSpeedrun(t *testing.T) {
	cat := category.Category{ID: category.Animals, DisplayName: "Animals", Icon: "A"}
	snap := game.Snapshot{
		Mode:         game.ModeSpeedrun,
		State:        game.StateActive,
		Remaining:    42 * time.Second,
		WordsGuessed: 2,
		CurrentHint:  "It's a type of big cat.",
		Guesses: []game.GuessRecord{
			{Word: "lion", Proximity: 90},
			{Word: "wolf", Proximity: 20},
		},
	}
	lines := view(cat, snap, "ti", "lion: 90", 80, 40)

	if !strings.Contains(lines[0].text, "0:42 left") || !strings.Contains(lines[0].text, "2 solved") {
		t.Errorf("header = %q", lines[0].text)
	}
	if lines[2].text != "> ti_" {
		t.Errorf("input line = %q", lines[2].text)
	}
	if !strings.Contains(lines[4].text, "big cat") {
		t.Errorf("hint line = %q", lines[4].text)
	}
	last := lines[len(lines)-1].text
	if !strings.HasPrefix(last, "wolf") {
		t.Errorf("guess rows should follow snapshot order, last = %q", last)
	}
}

func TestViewTerminalRevealsTarget(t *testing.T) {
	cat := category.Category{ID: category.Food, DisplayName: "Food"}
	lines := view(cat, game.Snapshot{Mode: game.ModeClassic, State: game.StateWon, Target: "pizza"}, "", "", 80, 10)
	if !strings.Contains(lines[2].text, "pizza") {
		t.Errorf("won line = %q", lines[2].text)
	}
}

func TestViewClipsToHeight(t *testing.T) {
	snap := game.Snapshot{Mode: game.ModeClassic, State: game.StateActive}
	for i := 0; i < 50; i++ {
		snap.Guesses = append(snap.Guesses, game.GuessRecord{Word: "w", Proximity: i})
	}
	if n := len(view(category.Category{}, snap, "", "", 80, 12)); n > 12 {
		t.Errorf("view produced %d lines for height 12", n)
	}
}
