package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clans/internal/clan/domain"
	"github.com/smallbiznis/clans/internal/clock"
	"github.com/smallbiznis/clans/internal/config"
	"github.com/smallbiznis/clans/internal/lock"
	obslogger "github.com/smallbiznis/clans/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/clans/internal/observability/metrics"
	"github.com/smallbiznis/clans/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Clock  clock.Clock
	Policy *config.PolicyHolder `optional:"true"`

	Guard       *lock.CreateGuard       `optional:"true"`
	ObsMetrics  *obsmetrics.Metrics     `optional:"true"`
	PromMetrics *obsmetrics.PromMetrics `optional:"true"`
}

type createGuard interface {
	Acquire(ctx context.Context, owner int64, name, tag string) (func(context.Context), bool, error)
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	clock  clock.Clock
	policy *config.PolicyHolder
	guard  createGuard

	obsMetrics  *obsmetrics.Metrics
	promMetrics *obsmetrics.PromMetrics
}

func New(p Params) domain.Service {
	svc := &Service{
		db:          p.DB,
		log:         p.Log.Named("clan.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		clock:       p.Clock,
		policy:      p.Policy,
		obsMetrics:  p.ObsMetrics,
		promMetrics: p.PromMetrics,
	}
	if svc.clock == nil {
		svc.clock = clock.New()
	}
	if p.Guard.Enabled() {
		svc.guard = p.Guard
	}
	return svc
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Clan, error) {
	clan, err := s.create(ctx, req)
	s.record(ctx, "create", err)
	return clan, err
}

func (s *Service) create(ctx context.Context, req domain.CreateRequest) (*domain.Clan, error) {
	policy := s.policy.Get()

	name, err := normalizeName(req.Name, policy)
	if err != nil {
		return nil, err
	}
	tag, err := normalizeTag(req.Tag, policy)
	if err != nil {
		return nil, err
	}
	if req.Owner <= 0 {
		return nil, domain.ErrInvalidOwner
	}
	if !req.JoinMethod.Valid() {
		return nil, domain.ErrInvalidJoinMethod
	}

	if s.guard != nil {
		release, ok, err := s.guard.Acquire(ctx, req.Owner, name, tag)
		switch {
		case err != nil:
			obslogger.WithContext(ctx, s.log).Warn("create lock unavailable, relying on unique indexes", zap.Error(err))
		case !ok:
			s.obsMetrics.RecordCreateLockContended(ctx)
			return nil, domain.ErrCreateContended
		default:
			defer release(context.WithoutCancel(ctx))
		}
	}

	// Fixed precedence: owner, then name, then tag.
	owner := req.Owner
	existing, err := s.repo.FetchOne(ctx, s.db, domain.Filter{Owner: &owner, Status: domain.StatusNotDeleted})
	if err != nil {
		return nil, s.storeErr("create", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyInClan
	}

	existing, err = s.repo.FetchOne(ctx, s.db, domain.Filter{Name: &name, Status: domain.StatusNotDeleted})
	if err != nil {
		return nil, s.storeErr("create", err)
	}
	if existing != nil {
		return nil, domain.ErrNameExists
	}

	existing, err = s.repo.FetchOne(ctx, s.db, domain.Filter{Tag: &tag, Status: domain.StatusNotDeleted})
	if err != nil {
		return nil, s.storeErr("create", err)
	}
	if existing != nil {
		return nil, domain.ErrTagExists
	}

	now := s.clock.Now()
	clan, err := s.repo.Create(ctx, s.db, &domain.Clan{
		ID:          s.genID.Generate(),
		Name:        name,
		Tag:         tag,
		Description: trimPtr(req.Description),
		Owner:       req.Owner,
		JoinMethod:  req.JoinMethod,
		Status:      domain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if conflict := conflictFromStorage(err); conflict != nil {
			return nil, conflict
		}
		s.promMetrics.IncStoreError("create", err)
		obslogger.WithContext(ctx, s.log).Error("insert clan failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrCannotCreate, err)
	}
	if clan == nil {
		return nil, domain.ErrCannotCreate
	}

	obslogger.WithContext(ctx, s.log).Info("clan created",
		zap.String("clan_id", clan.ID.String()),
		zap.Int64("owner", clan.Owner),
	)
	return clan, nil
}

func (s *Service) FetchOne(ctx context.Context, id snowflake.ID) (*domain.Clan, error) {
	clan, err := s.fetchActive(ctx, id)
	s.record(ctx, "fetch_one", err)
	return clan, err
}

func (s *Service) fetchActive(ctx context.Context, id snowflake.ID) (*domain.Clan, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	clan, err := s.repo.FetchOne(ctx, s.db, domain.Filter{ClanID: &id})
	if err != nil {
		return nil, s.storeErr("fetch_one", err)
	}
	if clan == nil {
		return nil, domain.ErrNotFound
	}
	return clan, nil
}

func (s *Service) FetchAll(ctx context.Context) ([]domain.Clan, error) {
	clans, err := s.repo.FetchAll(ctx, s.db, domain.Filter{})
	if err != nil {
		err = s.storeErr("fetch_all", err)
	} else if clans == nil {
		clans = []domain.Clan{}
	}
	s.record(ctx, "fetch_all", err)
	return clans, err
}

func (s *Service) PartialUpdate(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Clan, error) {
	clan, err := s.partialUpdate(ctx, id, req)
	s.record(ctx, "partial_update", err)
	return clan, err
}

func (s *Service) partialUpdate(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Clan, error) {
	current, err := s.fetchActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Empty() {
		return current, nil
	}

	update, err := s.validateUpdate(req)
	if err != nil {
		return nil, err
	}

	// Fixed precedence: tag, then name, then owner. A value equal to the
	// current one never collides, and the clan's own row is excluded.
	if update.Tag.Set && update.Tag.Value != current.Tag {
		tag := update.Tag.Value
		if err := s.ensureFree(ctx, current.ID, domain.Filter{Tag: &tag, Status: domain.StatusNotDeleted}, domain.ErrTagExists); err != nil {
			return nil, err
		}
	}
	if update.Name.Set && update.Name.Value != current.Name {
		name := update.Name.Value
		if err := s.ensureFree(ctx, current.ID, domain.Filter{Name: &name, Status: domain.StatusNotDeleted}, domain.ErrNameExists); err != nil {
			return nil, err
		}
	}
	if update.Owner.Set && update.Owner.Value != current.Owner {
		owner := update.Owner.Value
		if err := s.ensureFree(ctx, current.ID, domain.Filter{Owner: &owner, Status: domain.StatusNotDeleted}, domain.ErrAlreadyInClan); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.PartialUpdate(ctx, s.db, current.ID, update, s.clock.Now())
	if err != nil {
		if conflict := conflictFromStorage(err); conflict != nil {
			return nil, conflict
		}
		return nil, s.storeErr("partial_update", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return updated, nil
}

func (s *Service) ensureFree(ctx context.Context, self snowflake.ID, filter domain.Filter, conflict error) error {
	other, err := s.repo.FetchOne(ctx, s.db, filter)
	if err != nil {
		return s.storeErr("partial_update", err)
	}
	if other != nil && other.ID != self {
		return conflict
	}
	return nil
}

func (s *Service) validateUpdate(req domain.UpdateRequest) (domain.Update, error) {
	policy := s.policy.Get()
	var update domain.Update

	if req.Name.Set {
		if req.Name.IsNull() {
			return update, domain.ErrInvalidName
		}
		name, err := normalizeName(req.Name.Value, policy)
		if err != nil {
			return update, err
		}
		update.Name = domain.Value(name)
	}
	if req.Tag.Set {
		if req.Tag.IsNull() {
			return update, domain.ErrInvalidTag
		}
		tag, err := normalizeTag(req.Tag.Value, policy)
		if err != nil {
			return update, err
		}
		update.Tag = domain.Value(tag)
	}
	if req.Description.Set {
		if req.Description.IsNull() {
			update.Description = domain.Null[string]()
		} else {
			update.Description = domain.Value(strings.TrimSpace(req.Description.Value))
		}
	}
	if req.Owner.Set {
		if req.Owner.IsNull() || req.Owner.Value <= 0 {
			return update, domain.ErrInvalidOwner
		}
		update.Owner = req.Owner
	}
	if req.JoinMethod.Set {
		if req.JoinMethod.IsNull() || !req.JoinMethod.Value.Valid() {
			return update, domain.ErrInvalidJoinMethod
		}
		update.JoinMethod = req.JoinMethod
	}
	return update, nil
}

func (s *Service) Disband(ctx context.Context, id snowflake.ID) (*domain.Clan, error) {
	clan, err := s.disband(ctx, id)
	s.record(ctx, "disband", err)
	return clan, err
}

func (s *Service) disband(ctx context.Context, id snowflake.ID) (*domain.Clan, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	existing, err := s.repo.FetchOne(ctx, s.db, domain.Filter{ClanID: &id, Status: domain.StatusNotDeleted})
	if err != nil {
		return nil, s.storeErr("disband", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	clan, err := s.repo.Disband(ctx, s.db, id, s.clock.Now())
	if err != nil {
		return nil, s.storeErr("disband", err)
	}
	if clan == nil {
		return nil, domain.ErrNotFound
	}

	obslogger.WithContext(ctx, s.log).Info("clan disbanded", zap.String("clan_id", clan.ID.String()))
	return clan, nil
}

func (s *Service) storeErr(operation string, err error) error {
	s.promMetrics.IncStoreError(operation, err)
	return fmt.Errorf("clans %s: %w", operation, err)
}

func (s *Service) record(ctx context.Context, operation string, err error) {
	s.obsMetrics.RecordClanOperation(ctx, operation, outcome(err))
}

func outcome(err error) string {
	var domainErr *domain.Error
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAlreadyInClan), errors.Is(err, domain.ErrNameExists), errors.Is(err, domain.ErrTagExists),
		errors.Is(err, domain.ErrCreateContended):
		return "conflict"
	case errors.Is(err, domain.ErrCannotCreate):
		return "error"
	case errors.As(err, &domainErr):
		return "invalid"
	default:
		return "error"
	}
}

// conflictFromStorage maps a unique-index violation to its domain error, or
// returns nil when err is not one it recognizes.
func conflictFromStorage(err error) error {
	if !db.IsDuplicateKeyErr(err) {
		return nil
	}
	target := db.DuplicateKeyTarget(err)
	switch {
	case strings.Contains(target, "owner"):
		return domain.ErrAlreadyInClan
	case strings.Contains(target, "tag"):
		return domain.ErrTagExists
	case strings.Contains(target, "name"):
		return domain.ErrNameExists
	default:
		return nil
	}
}

func normalizeName(value string, policy config.Policy) (string, error) {
	name := strings.TrimSpace(value)
	if n := utf8.RuneCountInString(name); n == 0 || n > policy.NameMaxLength {
		return "", domain.ErrInvalidName
	}
	return name, nil
}

func normalizeTag(value string, policy config.Policy) (string, error) {
	tag := strings.TrimSpace(value)
	if n := utf8.RuneCountInString(tag); n == 0 || n > policy.TagMaxLength {
		return "", domain.ErrInvalidTag
	}
	return tag, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
