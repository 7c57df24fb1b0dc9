package world

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/stack"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cellcrawl/internal/catalog"
	"github.com/samdwyer/cellcrawl/internal/geom"
	"github.com/samdwyer/cellcrawl/internal/logging"
	"github.com/samdwyer/cellcrawl/internal/telemetry"
)

// DefaultMaxCells bounds a level when no other limit is configured.
const DefaultMaxCells = 20

// ErrNoHub is returned when no template opens on all four edges.
var ErrNoHub = errors.New("no template with all four connectors")

// expansionOrder is the order open connectors of a cell are tried in.
var expansionOrder = [geom.NumDirections]geom.Direction{geom.Bottom, geom.Top, geom.Left, geom.Right}

// socket is one connector of one cell.
type socket struct {
	cell CellID
	dir  geom.Direction
}

// frame is a cell whose connectors are being expanded; next indexes expansionOrder.
type frame struct {
	cell CellID
	next int
}

// Assembler grows a level graph from a catalog, depth first from the hub.
type Assembler struct {
	cat      *catalog.Catalog
	maxCells int
	rng      *rand.Rand

	// Seed is only recorded on the trace span.
	Seed int64

	graph     *Graph
	open      int // unresolved sockets that may still grow the graph
	abandoned mapset.Set[socket]
	log       *logrus.Entry
}

// NewAssembler creates an assembler. maxCells below 1 selects DefaultMaxCells.
func NewAssembler(cat *catalog.Catalog, maxCells int, rng *rand.Rand) *Assembler {
	if maxCells < 1 {
		maxCells = DefaultMaxCells
	}
	return &Assembler{
		cat:      cat,
		maxCells: maxCells,
		rng:      rng,
		log:      logging.For("world"),
	}
}

// Assemble builds a new graph. The hub is placed at map position (0,0) and
// expanded connector by connector (bottom, top, left, right), recursing into
// every new cell that is not a dead end. The graph never exceeds maxCells.
func (a *Assembler) Assemble(ctx context.Context) (*Graph, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.assemble")
	defer span.End()

	startTime := time.Now()

	hub := a.cat.Hub()
	if hub == nil {
		span.RecordError(ErrNoHub)
		return nil, ErrNoHub
	}

	a.graph = NewGraph()
	a.abandoned = mapset.New[socket]()
	root := a.graph.Add(hub, geom.Point{})
	a.open = hub.NumConnections()

	work := stack.New[*frame]()
	work.Push(&frame{cell: root.ID})

	for work.Size() > 0 {
		f := work.Peek()
		if f.next >= len(expansionOrder) {
			work.Pop()
			continue
		}
		d := expansionOrder[f.next]
		f.next++

		if child, ok := a.expand(f.cell, d); ok {
			work.Push(&frame{cell: child})
		}
	}

	span.SetAttributes(
		attribute.Int("cells", a.graph.Len()),
		attribute.Int("max_cells", a.maxCells),
		attribute.Int64("seed", a.Seed),
		attribute.Int("abandoned_sockets", a.abandoned.Size()),
		attribute.Int64("generation_ms", time.Since(startTime).Milliseconds()),
	)

	a.log.WithFields(logrus.Fields{
		"cells":     a.graph.Len(),
		"max_cells": a.maxCells,
		"abandoned": a.abandoned.Size(),
	}).Info("level assembled")

	return a.graph, nil
}

// expand resolves connector d of cell id. It returns the new cell when one was
// created that still has connectors to expand.
func (a *Assembler) expand(id CellID, d geom.Direction) (CellID, bool) {
	cell := a.graph.Cell(id)
	if !cell.Type.HasConnection(d) || cell.HasNeighbor(d) {
		return NoCell, false
	}

	candidates := a.candidates(cell.Type, d)
	if len(candidates) == 0 {
		a.abandon(socket{id, d}, "no template fits")
		return NoCell, false
	}

	target := cell.MapPos.Step(d)
	if existing := a.graph.At(target); existing != nil {
		if !existing.Type.HasConnection(d.Opposite()) {
			a.abandon(socket{id, d}, "existing cell has no matching connector")
			return NoCell, false
		}
		a.graph.Link(id, d, existing.ID)
		a.resolve(socket{id, d})
		a.resolve(socket{existing.ID, d.Opposite()})
		return NoCell, false
	}

	t := candidates[a.rng.Intn(len(candidates))]
	child := a.graph.Add(t, target)
	a.graph.Link(id, d, child.ID)
	a.open += t.NumConnections()
	a.resolve(socket{id, d})
	a.resolve(socket{child.ID, d.Opposite()})

	if t.IsDeadEnd() {
		return NoCell, false
	}
	return child.ID, true
}

// candidates returns every other template that can attach on edge d without
// letting the worst-case graph size exceed maxCells.
func (a *Assembler) candidates(from *catalog.CellType, d geom.Direction) []*catalog.CellType {
	var out []*catalog.CellType
	for _, t := range a.cat.Types() {
		if t == from || !t.HasConnection(d.Opposite()) {
			continue
		}
		if a.graph.Len()+a.open-1+t.NumConnections() > a.maxCells {
			continue
		}
		out = append(out, t)
	}
	return out
}

// resolve marks a socket as linked.
func (a *Assembler) resolve(s socket) {
	if a.abandoned.Has(s) {
		a.abandoned.Remove(s)
		return
	}
	a.open--
}

// abandon leaves a socket open for good.
func (a *Assembler) abandon(s socket, reason string) {
	a.abandoned.Put(s)
	a.open--
	a.log.WithFields(logrus.Fields{
		"cell":      s.cell,
		"direction": s.dir.String(),
		"reason":    reason,
	}).Debug("connector left open")
}
