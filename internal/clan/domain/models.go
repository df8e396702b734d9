package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
	StatusDeleted     Status = "deleted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDeactivated, StatusDeleted:
		return true
	}
	return false
}

type JoinMethod string

const (
	JoinMethodOpen       JoinMethod = "open"
	JoinMethodByRequest  JoinMethod = "by-request"
	JoinMethodInviteOnly JoinMethod = "invite-only"
)

func (m JoinMethod) Valid() bool {
	switch m {
	case JoinMethodOpen, JoinMethodByRequest, JoinMethodInviteOnly:
		return true
	}
	return false
}

type Clan struct {
	ID          snowflake.ID `gorm:"column:clan_id;primaryKey" json:"clan_id"`
	Name        string       `gorm:"not null" json:"name"`
	Tag         string       `gorm:"not null" json:"tag"`
	Description *string      `json:"description"`
	Owner       int64        `gorm:"not null" json:"owner"`
	JoinMethod  JoinMethod   `gorm:"not null" json:"join_method"`
	Status      Status       `gorm:"not null;default:active" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// StatusFilter narrows lookups by lifecycle state. The zero value matches
// active clans only.
type StatusFilter struct {
	kind   statusFilterKind
	status Status
}

type statusFilterKind int

const (
	statusFilterDefault statusFilterKind = iota
	statusFilterExact
	statusFilterAny
	statusFilterNotDeleted
)

var (
	// StatusAny disables status filtering.
	StatusAny = StatusFilter{kind: statusFilterAny}
	// StatusNotDeleted matches active and deactivated clans.
	StatusNotDeleted = StatusFilter{kind: statusFilterNotDeleted}
)

func StatusIs(s Status) StatusFilter {
	return StatusFilter{kind: statusFilterExact, status: s}
}

// Resolve returns the exact status to match, if any, and whether deleted
// rows must be excluded.
func (f StatusFilter) Resolve() (status *Status, excludeDeleted bool) {
	switch f.kind {
	case statusFilterExact:
		s := f.status
		return &s, false
	case statusFilterAny:
		return nil, false
	case statusFilterNotDeleted:
		return nil, true
	default:
		s := StatusActive
		return &s, false
	}
}

// Filter holds optional lookup predicates. A nil field matches any value.
type Filter struct {
	ClanID *snowflake.ID
	Name   *string
	Tag    *string
	Owner  *int64
	Status StatusFilter
}

// Update lists the columns a partial update may touch.
type Update struct {
	Name        Field[string]
	Tag         Field[string]
	Description Field[string]
	Owner       Field[int64]
	JoinMethod  Field[JoinMethod]
	Status      Field[Status]
}

func (u Update) Empty() bool {
	return !u.Name.Set && !u.Tag.Set && !u.Description.Set &&
		!u.Owner.Set && !u.JoinMethod.Set && !u.Status.Set
}

type CreateRequest struct {
	Name        string
	Tag         string
	Description *string
	Owner       int64
	JoinMethod  JoinMethod
}

// UpdateRequest carries the client-supplied fields of a partial update.
// Status is not client-settable; disband is the only lifecycle transition.
type UpdateRequest struct {
	Name        Field[string]     `json:"name"`
	Tag         Field[string]     `json:"tag"`
	Description Field[string]     `json:"description"`
	Owner       Field[int64]      `json:"owner"`
	JoinMethod  Field[JoinMethod] `json:"join_method"`
}

func (r UpdateRequest) Empty() bool {
	return !r.Name.Set && !r.Tag.Set && !r.Description.Set && !r.Owner.Set && !r.JoinMethod.Set
}
