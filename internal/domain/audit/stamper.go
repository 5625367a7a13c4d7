// Package audit sella los cambios pendientes antes de escribirlos: creación, modificación y
// borrado lógico con el actor actual o System. No hace I/O.
package audit

import (
	"context"
	"time"

	"github.com/jhoicas/Academia-api/internal/domain/actor"
	"github.com/jhoicas/Academia-api/internal/domain/entity"
)

// State estado de un cambio pendiente.
type State int

const (
	Added State = iota + 1
	Modified
	Deleted
)

func (s State) String() string {
	switch s {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change cambio pendiente registrado por la unidad de trabajo.
type Change struct {
	State  State
	Entity entity.Identifiable
}

// Stamper aplica los sellos de auditoría a un conjunto de cambios.
type Stamper struct {
	resolver actor.Resolver
	now      func() time.Time
}

// NewStamper construye el sellador. Si now es nil se usa time.Now.
func NewStamper(resolver actor.Resolver, now func() time.Time) *Stamper {
	if now == nil {
		now = time.Now
	}
	return &Stamper{resolver: resolver, now: now}
}

// Apply sella los cambios y devuelve una copia con los estados reescritos:
// un Deleted sobre una entidad auditable pasa a Modified (borrado lógico).
// Las entidades no auditables no se tocan y su borrado sigue siendo físico.
// Todos los cambios de una misma llamada comparten instante y actor.
func (s *Stamper) Apply(ctx context.Context, changes []Change) []Change {
	out := make([]Change, len(changes))
	copy(out, changes)
	if len(out) == 0 {
		return out
	}

	by := actor.IDOrSystem(ctx, s.resolver)
	now := s.now().UTC()

	for i, ch := range out {
		a, ok := ch.Entity.(entity.Auditable)
		if !ok {
			continue
		}
		base := a.Audit()
		switch ch.State {
		case Added:
			base.MarkCreated(by, now)
		case Modified:
			base.MarkUpdated(by, now)
		case Deleted:
			base.MarkDeleted(by, now)
			out[i].State = Modified
		}
	}
	return out
}
