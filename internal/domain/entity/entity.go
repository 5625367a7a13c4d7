package entity

import (
	"time"

	"github.com/google/uuid"
)

// Identifiable cualquier agregado persistible: identidad estable y tabla de destino.
type Identifiable interface {
	GetID() uuid.UUID
	TableName() string
}

// Entity base con identidad UUID asignada al construir y nunca reasignada.
type Entity struct {
	ID uuid.UUID
}

// NewEntity genera una identidad nueva.
func NewEntity() Entity {
	return Entity{ID: uuid.New()}
}

// GetID devuelve la identidad.
func (e Entity) GetID() uuid.UUID { return e.ID }

// Auditable capacidad de recibir sellos de auditoría. La implementa todo tipo que embebe AuditableEntity.
type Auditable interface {
	Identifiable
	Audit() *AuditableEntity
}

// AuditableEntity añade los campos de auditoría y borrado lógico.
// Invariantes: IsDeleted implica DeletedAt y DeletedBy no nulos; sin borrado ambos son nil.
// CreatedAt <= UpdatedAt <= DeletedAt cuando existen. Todos los instantes en UTC.
type AuditableEntity struct {
	Entity
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt *time.Time
	UpdatedBy *string
	IsDeleted bool
	DeletedAt *time.Time
	DeletedBy *string
}

// NewAuditableEntity construye la base auditable con identidad nueva y sin sellos.
func NewAuditableEntity() AuditableEntity {
	return AuditableEntity{Entity: NewEntity()}
}

// Audit expone la base auditable a quien sella los cambios.
func (a *AuditableEntity) Audit() *AuditableEntity { return a }

// MarkCreated sella la inserción.
func (a *AuditableEntity) MarkCreated(by string, at time.Time) {
	a.CreatedAt = normalize(at)
	a.CreatedBy = by
}

// MarkUpdated sella una modificación. CreatedAt/CreatedBy no cambian.
func (a *AuditableEntity) MarkUpdated(by string, at time.Time) {
	t := a.after(at)
	a.UpdatedAt = &t
	a.UpdatedBy = &by
}

// MarkDeleted convierte el borrado en borrado lógico. UpdatedAt no se toca.
func (a *AuditableEntity) MarkDeleted(by string, at time.Time) {
	t := a.after(at)
	a.IsDeleted = true
	a.DeletedAt = &t
	a.DeletedBy = &by
}

// Restore revierte un borrado lógico y limpia los campos de borrado.
func (a *AuditableEntity) Restore() {
	a.IsDeleted = false
	a.DeletedAt = nil
	a.DeletedBy = nil
}

// LastAuditAt último instante sellado (creación, modificación o borrado).
func (a *AuditableEntity) LastAuditAt() time.Time {
	last := a.CreatedAt
	if a.UpdatedAt != nil && a.UpdatedAt.After(last) {
		last = *a.UpdatedAt
	}
	if a.DeletedAt != nil && a.DeletedAt.After(last) {
		last = *a.DeletedAt
	}
	return last
}

// after garantiza que el nuevo sello sea estrictamente posterior al último, aun con relojes de baja resolución.
func (a *AuditableEntity) after(at time.Time) time.Time {
	t := normalize(at)
	last := a.LastAuditAt()
	if !last.IsZero() && !t.After(last) {
		t = last.Add(time.Microsecond)
	}
	return t
}

// normalize lleva a UTC con la precisión de timestamptz (microsegundos).
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
