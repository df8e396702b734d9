package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/repository.go -package=mock . Repository

// Repository methods return nil, nil when no row matches.
type Repository interface {
	Create(ctx context.Context, db *gorm.DB, clan *Clan) (*Clan, error)
	FetchOne(ctx context.Context, db *gorm.DB, filter Filter) (*Clan, error)
	FetchAll(ctx context.Context, db *gorm.DB, filter Filter) ([]Clan, error)
	PartialUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID, update Update, now time.Time) (*Clan, error)
	Disband(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (*Clan, error)
}
