package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clans/internal/clan/domain"
	"gorm.io/gorm"
)

const clanColumns = `clan_id, name, tag, description, owner, join_method, status, created_at, updated_at`

// Every optional predicate collapses to a tautology when its parameter is NULL.
const filterClause = `clan_id = COALESCE(@clan_id, clan_id)
	AND name = COALESCE(@name, name)
	AND tag = COALESCE(@tag, tag)
	AND owner = COALESCE(@owner, owner)
	AND status = COALESCE(@status, status)
	AND (NOT @exclude_deleted OR status <> 'deleted')`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, clan *domain.Clan) (*domain.Clan, error) {
	status := clan.Status
	if status == "" {
		status = domain.StatusActive
	}

	var row clanRow
	err := db.WithContext(ctx).Raw(
		`INSERT INTO clans (clan_id, name, tag, description, owner, join_method, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP), COALESCE(?, CURRENT_TIMESTAMP))
		 RETURNING `+clanColumns,
		int64(clan.ID),
		clan.Name,
		clan.Tag,
		clan.Description,
		clan.Owner,
		string(clan.JoinMethod),
		string(status),
		timeArg(clan.CreatedAt),
		timeArg(clan.UpdatedAt),
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// timeArg binds a zero time as NULL so the column default applies.
func timeArg(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func (r *repo) FetchOne(ctx context.Context, db *gorm.DB, filter domain.Filter) (*domain.Clan, error) {
	var row clanRow
	err := db.WithContext(ctx).Raw(
		`SELECT `+clanColumns+` FROM clans WHERE `+filterClause+` ORDER BY clan_id LIMIT 1`,
		filterArgs(filter),
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ClanID == 0 {
		return nil, nil
	}
	return row.toDomain(), nil
}

func (r *repo) FetchAll(ctx context.Context, db *gorm.DB, filter domain.Filter) ([]domain.Clan, error) {
	var rows []clanRow
	err := db.WithContext(ctx).Raw(
		`SELECT `+clanColumns+` FROM clans WHERE `+filterClause+` ORDER BY clan_id`,
		filterArgs(filter),
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	clans := make([]domain.Clan, 0, len(rows))
	for i := range rows {
		clans = append(clans, *rows[i].toDomain())
	}
	return clans, nil
}

// PartialUpdate changes only the fields marked Set, in one statement.
func (r *repo) PartialUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID, update domain.Update, now time.Time) (*domain.Clan, error) {
	args := map[string]interface{}{
		"clan_id":         int64(id),
		"updated_at":      now,
		"set_name":        update.Name.Set,
		"name":            nullable(update.Name),
		"set_tag":         update.Tag.Set,
		"tag":             nullable(update.Tag),
		"set_description": update.Description.Set,
		"description":     nullable(update.Description),
		"set_owner":       update.Owner.Set,
		"owner":           nullable(update.Owner),
		"set_join_method": update.JoinMethod.Set,
		"join_method":     nullableString(update.JoinMethod),
		"set_status":      update.Status.Set,
		"status":          nullableString(update.Status),
	}

	var row clanRow
	err := db.WithContext(ctx).Raw(
		`UPDATE clans SET
			name = CASE WHEN @set_name THEN @name ELSE name END,
			tag = CASE WHEN @set_tag THEN @tag ELSE tag END,
			description = CASE WHEN @set_description THEN @description ELSE description END,
			owner = CASE WHEN @set_owner THEN @owner ELSE owner END,
			join_method = CASE WHEN @set_join_method THEN @join_method ELSE join_method END,
			status = CASE WHEN @set_status THEN @status ELSE status END,
			updated_at = @updated_at
		 WHERE clan_id = @clan_id
		 RETURNING `+clanColumns,
		args,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ClanID == 0 {
		return nil, nil
	}
	return row.toDomain(), nil
}

func (r *repo) Disband(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (*domain.Clan, error) {
	var row clanRow
	err := db.WithContext(ctx).Raw(
		`UPDATE clans SET status = ?, updated_at = ?
		 WHERE clan_id = ?
		 RETURNING `+clanColumns,
		string(domain.StatusDeleted),
		now,
		int64(id),
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ClanID == 0 {
		return nil, nil
	}
	return row.toDomain(), nil
}

func filterArgs(filter domain.Filter) map[string]interface{} {
	status, excludeDeleted := filter.Status.Resolve()

	args := map[string]interface{}{
		"clan_id":         nil,
		"name":            nil,
		"tag":             nil,
		"owner":           nil,
		"status":          nil,
		"exclude_deleted": excludeDeleted,
	}
	if filter.ClanID != nil {
		args["clan_id"] = int64(*filter.ClanID)
	}
	if filter.Name != nil {
		args["name"] = *filter.Name
	}
	if filter.Tag != nil {
		args["tag"] = *filter.Tag
	}
	if filter.Owner != nil {
		args["owner"] = *filter.Owner
	}
	if status != nil {
		args["status"] = string(*status)
	}
	return args
}

func nullable[T any](f domain.Field[T]) interface{} {
	if !f.Set || !f.Valid {
		return nil
	}
	return f.Value
}

func nullableString[T ~string](f domain.Field[T]) interface{} {
	if !f.Set || !f.Valid {
		return nil
	}
	return string(f.Value)
}
