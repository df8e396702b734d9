package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create returns ErrInvalidName, ErrInvalidTag, ErrInvalidOwner,
	// ErrInvalidJoinMethod, ErrAlreadyInClan, ErrNameExists, ErrTagExists
	// or ErrCannotCreate.
	Create(ctx context.Context, req CreateRequest) (*Clan, error)
	// FetchOne returns ErrNotFound unless an active clan has the id.
	FetchOne(ctx context.Context, id snowflake.ID) (*Clan, error)
	// FetchAll lists active clans ordered by id.
	FetchAll(ctx context.Context) ([]Clan, error)
	// PartialUpdate returns ErrNotFound, a validation error, ErrTagExists,
	// ErrNameExists or ErrAlreadyInClan.
	PartialUpdate(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Clan, error)
	// Disband returns ErrNotFound unless the clan exists and is not deleted.
	Disband(ctx context.Context, id snowflake.ID) (*Clan, error)
}
