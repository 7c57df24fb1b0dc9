package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cellcrawl/internal/level"
	"github.com/samdwyer/cellcrawl/internal/logging"
	"github.com/samdwyer/cellcrawl/internal/telemetry"
	"github.com/samdwyer/cellcrawl/internal/ui"
)

const (
	// FrameTime is the duration of one simulation step.
	FrameTime = time.Second / 30

	// moveStep is how far one key press moves the player, in world units.
	moveStep = 16.0
)

// action is a player command decoded from a key press.
type action int

const (
	actNone action = iota
	actUp
	actDown
	actLeft
	actRight
	actStrike
	actQuit
)

// Game holds the entire game state.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	level    *level.Level
	state    State
	running  bool
	frames   int
	log      *logrus.Entry
}

// New creates a new game instance over an already built level.
func New(lv *level.Level, screen *ui.Screen) *Game {
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		level:    lv,
		state:    StateExplore,
		running:  true,
		log:      logging.For("game"),
	}
}

// Run executes the main game loop until the player quits or ctx ends.
// Terminal events are read on their own goroutine and handed to the loop.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	// Initialize game (traced)
	ctx, initSpan := tracer.Start(ctx, "game.init")
	root := g.level.Graph().Root()
	g.level.Activate(ctx, root.ID)
	initSpan.SetAttributes(
		attribute.Int("level.cells", g.level.Graph().Len()),
		attribute.String("level.root", root.Type.Name()),
	)
	initSpan.End()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 16)
	go g.pollEvents(events, done)

	ticker := time.NewTicker(FrameTime)
	defer ticker.Stop()

	// Main game loop
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ctx, ev)
		case <-ticker.C:
			g.step(ctx)
		}
	}

	g.log.WithFields(logrus.Fields{
		"frames": g.frames,
		"state":  g.state.String(),
	}).Info("game loop finished")

	// Cleanup
	g.screen.Close()
	return nil
}

// pollEvents forwards terminal events until the screen is closed.
func (g *Game) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// step advances the simulation by one frame and redraws.
func (g *Game) step(ctx context.Context) {
	g.frames++
	if g.state == StateExplore {
		g.level.Update(ctx)
		if !g.level.Player.IsAlive() {
			g.state = StateDead
			g.log.WithField("frames", g.frames).Info("player died")
		}
	}
	g.renderer.Render(g.level)
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.apply(ctx, actionFor(ev.Key(), ev.Rune()))
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// actionFor maps keyboard input to a command.
func actionFor(key tcell.Key, r rune) action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyUp:
		return actUp
	case tcell.KeyDown:
		return actDown
	case tcell.KeyLeft:
		return actLeft
	case tcell.KeyRight:
		return actRight
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return actQuit
		case ' ':
			return actStrike
		}
	}
	return actNone
}

// apply carries out one command.
func (g *Game) apply(ctx context.Context, a action) {
	if a == actQuit {
		g.running = false
		return
	}
	if g.state != StateExplore {
		return
	}

	switch a {
	case actUp:
		g.tryMove(ctx, 0, -moveStep)
	case actDown:
		g.tryMove(ctx, 0, moveStep)
	case actLeft:
		g.tryMove(ctx, -moveStep, 0)
	case actRight:
		g.tryMove(ctx, moveStep, 0)
	case actStrike:
		g.level.Strike()
	}
}

// tryMove attempts to move the player by the given delta.
func (g *Game) tryMove(ctx context.Context, dx, dy float64) {
	if g.level.MovePlayer(ctx, dx, dy) {
		cell := g.level.Active()
		g.log.WithFields(logrus.Fields{
			"cell":  cell.ID,
			"type":  cell.Type.Name(),
			"map_x": cell.MapPos.X,
			"map_y": cell.MapPos.Y,
		}).Debug("player changed cell")
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
