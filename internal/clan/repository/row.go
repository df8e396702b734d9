package repository

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clans/internal/clan/domain"
)

type clanRow struct {
	ClanID      int64     `gorm:"column:clan_id"`
	Name        string    `gorm:"column:name"`
	Tag         string    `gorm:"column:tag"`
	Description *string   `gorm:"column:description"`
	Owner       int64     `gorm:"column:owner"`
	JoinMethod  string    `gorm:"column:join_method"`
	Status      string    `gorm:"column:status"`
	CreatedAt   timestamp `gorm:"column:created_at"`
	UpdatedAt   timestamp `gorm:"column:updated_at"`
}

func (r *clanRow) toDomain() *domain.Clan {
	return &domain.Clan{
		ID:          snowflake.ID(r.ClanID),
		Name:        r.Name,
		Tag:         r.Tag,
		Description: r.Description,
		Owner:       r.Owner,
		JoinMethod:  domain.JoinMethod(r.JoinMethod),
		Status:      domain.Status(r.Status),
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timestamp scans postgres timestamptz values as well as the text and unix
// forms sqlite hands back for a TIMESTAMPTZ column.
type timestamp struct {
	time.Time
}

func (t *timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case int64:
		t.Time = time.Unix(v, 0).UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", value)
	}
}

func (t timestamp) Value() (driver.Value, error) {
	return t.Time, nil
}

func (t *timestamp) parse(s string) error {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, " m="); idx >= 0 {
		s = s[:idx]
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}
