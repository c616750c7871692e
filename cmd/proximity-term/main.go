// Command proximity-term plays proximity in a terminal against the local
// scoring engine. No server is needed.
//
//	proximity-term -category animals -mode speedrun -seconds 90
//
// Keys: Enter submits, Tab toggles hints, Ctrl-N starts a new game, Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/game"
	"github.com/robalobadob/proximity/internal/hint"
	"github.com/robalobadob/proximity/internal/scoring"
	"github.com/robalobadob/proximity/internal/semantic"
	"github.com/robalobadob/proximity/internal/validate"
)

const maxInput = validate.MaxLength

type app struct {
	screen tcell.Screen
	chime  *chime

	deps    game.Deps
	cat     category.Category
	mode    game.Mode
	options game.Options
	sugg    *validate.Validator

	sess  *game.Session
	input []rune
	msg   string
}

func main() {
	catFlag := flag.String("category", string(category.Animals), "category id")
	modeFlag := flag.String("mode", string(game.ModeClassic), "classic or speedrun")
	hints := flag.Bool("hints", false, "start with hints shown")
	seconds := flag.Int("seconds", 60, "speedrun time limit in seconds")
	logPath := flag.String("log", "proximity-term.log", "log file (the screen owns stdout)")
	mute := flag.Bool("mute", false, "disable the solve chime")
	flag.Parse()

	if f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		defer f.Close()
	} else {
		log.Logger = zerolog.Nop()
	}

	if err := run(*catFlag, *modeFlag, *hints, *seconds, *mute); err != nil {
		fmt.Fprintln(os.Stderr, "proximity-term:", err)
		os.Exit(1)
	}
}

func run(catID, modeName string, hints bool, seconds int, mute bool) error {
	reg, err := category.Default()
	if err != nil {
		return err
	}
	kb, err := semantic.Default()
	if err != nil {
		return err
	}
	v, err := validate.Default()
	if err != nil {
		return err
	}
	cat, ok := reg.Lookup(category.ID(category.Normalize(catID)))
	if !ok {
		return fmt.Errorf("unknown category %q", catID)
	}
	mode, ok := game.ParseMode(modeName)
	if !ok {
		return fmt.Errorf("unknown mode %q", modeName)
	}
	if seconds <= 0 {
		return errors.New("-seconds must be positive")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	a := &app{
		screen: screen,
		chime:  newChime(mute),
		deps: game.Deps{
			Words:     reg,
			Scorer:    scoring.NewCalculator(kb, nil, 0),
			Validator: v,
			Hints:     hint.New(kb, nil),
		},
		cat:     cat,
		mode:    mode,
		options: game.Options{HintsEnabled: hints, TimeLimit: time.Duration(seconds) * time.Second},
		sugg:    v,
	}
	defer a.cleanup()

	if err := a.newGame(); err != nil {
		return err
	}
	a.loop()
	return nil
}

func (a *app) newGame() error {
	s, err := game.NewSession(a.deps, a.cat.ID, a.mode, a.options)
	if err != nil {
		return err
	}
	a.sess, a.input, a.msg = s, nil, "Type a guess and press Enter."
	return nil
}

// loop multiplexes key events with the 1 Hz speedrun clock.
func (a *app) loop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	a.render()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.handle(ev) {
				return
			}
		case <-ticker.C:
			a.sess.Tick()
		}
		a.render()
	}
}

// handle processes one event and reports whether to keep running.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyCtrlN:
			if err := a.newGame(); err != nil {
				a.msg = err.Error()
			}
		case tcell.KeyTab:
			a.sess.ToggleHints()
		case tcell.KeyEnter:
			a.submit()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if n := len(a.input); n > 0 {
				a.input = a.input[:n-1]
			}
		case tcell.KeyRune:
			if len(a.input) < maxInput {
				a.input = append(a.input, ev.Rune())
			}
		}
	}
	return true
}

func (a *app) submit() {
	raw := string(a.input)
	if raw == "" {
		return
	}
	res, err := a.sess.SubmitGuess(context.Background(), raw)
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		a.msg = fmt.Sprintf("%q isn't a word we accept.", raw)
		if s, ok := a.sugg.Suggest(raw); ok {
			a.msg += fmt.Sprintf(" Did you mean %q?", s)
		}
		return
	case errors.Is(err, game.ErrDuplicateGuess):
		a.msg = fmt.Sprintf("You already tried %q.", category.Normalize(raw))
		a.input = nil
		return
	case err != nil:
		a.msg = err.Error()
		return
	}

	a.input = nil
	switch {
	case res.Solved && a.mode == game.ModeSpeedrun:
		a.msg = fmt.Sprintf("Solved %q! Next word.", res.Record.Word)
		a.chime.solved()
	case res.Solved:
		a.chime.solved()
	case res.NewHint != "":
		a.msg = "New hint unlocked."
	default:
		a.msg = fmt.Sprintf("%s: %d", res.Record.Word, res.Record.Proximity)
	}
}

func (a *app) render() {
	w, h := a.screen.Size()
	draw(a.screen, view(a.cat, a.sess.Snapshot(), string(a.input), a.msg, w, h))
}

func (a *app) cleanup() {
	a.chime.close()
	a.screen.Fini()
}
