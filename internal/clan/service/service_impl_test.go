package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/clans/internal/clan/domain"
	"github.com/smallbiznis/clans/internal/clan/repository"
	"github.com/smallbiznis/clans/internal/clock"
	"github.com/smallbiznis/clans/internal/config"
	"github.com/smallbiznis/clans/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var startTime = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	svc   *Service
	db    *gorm.DB
	clock *clock.FakeClock
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migration.ApplySQLite(context.Background(), conn))

	clk := clock.NewFakeClock(startTime)
	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: mustNode(t),
		Repo:  repository.Provide(),
		Clock: clk,
	}).(*Service)

	return &testEnv{svc: svc, db: conn, clock: clk}
}

func (e *testEnv) create(t *testing.T, name, tag string, owner int64) *domain.Clan {
	t.Helper()
	clan, err := e.svc.Create(context.Background(), domain.CreateRequest{
		Name:       name,
		Tag:        tag,
		Owner:      owner,
		JoinMethod: domain.JoinMethodOpen,
	})
	require.NoError(t, err)
	require.NotNil(t, clan)
	return clan
}

func strPtr(s string) *string { return &s }

func assertSameClan(t *testing.T, want, got *domain.Clan) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Tag, got.Tag)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Owner, got.Owner)
	assert.Equal(t, want.JoinMethod, got.JoinMethod)
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
}

func TestCreateThenFetchOne(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, domain.CreateRequest{
		Name:        "Akatsuki Quality Control",
		Tag:         "AQC",
		Description: strPtr("The"),
		Owner:       1935,
		JoinMethod:  domain.JoinMethodInviteOnly,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.True(t, startTime.Equal(created.CreatedAt))
	assert.True(t, startTime.Equal(created.UpdatedAt))

	fetched, err := env.svc.FetchOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Akatsuki Quality Control", fetched.Name)
	assert.Equal(t, "AQC", fetched.Tag)
	require.NotNil(t, fetched.Description)
	assert.Equal(t, "The", *fetched.Description)
	assert.Equal(t, int64(1935), fetched.Owner)
	assert.Equal(t, domain.JoinMethodInviteOnly, fetched.JoinMethod)

	_, err = env.svc.Create(ctx, domain.CreateRequest{
		Name:       "Another Clan",
		Tag:        "AC",
		Owner:      1935,
		JoinMethod: domain.JoinMethodOpen,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyInClan)

	untouched, err := env.svc.FetchOne(ctx, created.ID)
	require.NoError(t, err)
	assertSameClan(t, fetched, untouched)
}

func TestCreateConflictPrecedence(t *testing.T) {
	env := setup(t)
	env.create(t, "Alpha", "A", 1)

	cases := []struct {
		name  string
		req   domain.CreateRequest
		wantE error
	}{
		{"owner beats name and tag", domain.CreateRequest{Name: "Alpha", Tag: "A", Owner: 1}, domain.ErrAlreadyInClan},
		{"name beats tag", domain.CreateRequest{Name: "Alpha", Tag: "A", Owner: 2}, domain.ErrNameExists},
		{"tag only", domain.CreateRequest{Name: "Beta", Tag: "A", Owner: 2}, domain.ErrTagExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.JoinMethod = domain.JoinMethodOpen
			_, err := env.svc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantE)
		})
	}

	all, err := env.svc.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateValidation(t *testing.T) {
	env := setup(t)

	valid := domain.CreateRequest{Name: "Alpha", Tag: "A", Owner: 1, JoinMethod: domain.JoinMethodOpen}
	cases := []struct {
		name   string
		mutate func(*domain.CreateRequest)
		want   error
	}{
		{"empty name", func(r *domain.CreateRequest) { r.Name = "" }, domain.ErrInvalidName},
		{"blank name", func(r *domain.CreateRequest) { r.Name = "   " }, domain.ErrInvalidName},
		{"long name", func(r *domain.CreateRequest) { r.Name = strings.Repeat("n", 33) }, domain.ErrInvalidName},
		{"empty tag", func(r *domain.CreateRequest) { r.Tag = "" }, domain.ErrInvalidTag},
		{"long tag", func(r *domain.CreateRequest) { r.Tag = "ABCDEFGHI" }, domain.ErrInvalidTag},
		{"zero owner", func(r *domain.CreateRequest) { r.Owner = 0 }, domain.ErrInvalidOwner},
		{"unknown join method", func(r *domain.CreateRequest) { r.JoinMethod = "closed" }, domain.ErrInvalidJoinMethod},
		{"missing join method", func(r *domain.CreateRequest) { r.JoinMethod = "" }, domain.ErrInvalidJoinMethod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			_, err := env.svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateTrimsAndCountsRunes(t *testing.T) {
	env := setup(t)

	clan, err := env.svc.Create(context.Background(), domain.CreateRequest{
		Name:        "  " + strings.Repeat("é", 32) + "  ",
		Tag:         " ÅÅ ",
		Description: strPtr("  hello  "),
		Owner:       7,
		JoinMethod:  domain.JoinMethodByRequest,
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 32), clan.Name)
	assert.Equal(t, "ÅÅ", clan.Tag)
	assert.Equal(t, "hello", *clan.Description)
}

func TestCreateHonorsPolicy(t *testing.T) {
	env := setup(t)
	env.svc.policy = config.NewStaticPolicyHolder(config.Policy{NameMaxLength: 5, TagMaxLength: 2})

	_, err := env.svc.Create(context.Background(), domain.CreateRequest{Name: "Sixsix", Tag: "A", Owner: 1, JoinMethod: domain.JoinMethodOpen})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = env.svc.Create(context.Background(), domain.CreateRequest{Name: "Five5", Tag: "ABC", Owner: 1, JoinMethod: domain.JoinMethodOpen})
	assert.ErrorIs(t, err, domain.ErrInvalidTag)
}

func TestCreateAfterDisbandReusesIdentity(t *testing.T) {
	env := setup(t)
	first := env.create(t, "Alpha", "A", 1)

	_, err := env.svc.Disband(context.Background(), first.ID)
	require.NoError(t, err)

	second := env.create(t, "Alpha", "A", 1)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateBlockedByDeactivatedClan(t *testing.T) {
	env := setup(t)
	clan := env.create(t, "Alpha", "A", 1)
	_, err := repository.Provide().PartialUpdate(context.Background(), env.db, clan.ID,
		domain.Update{Status: domain.Value(domain.StatusDeactivated)}, startTime)
	require.NoError(t, err)

	_, err = env.svc.Create(context.Background(), domain.CreateRequest{Name: "Beta", Tag: "B", Owner: 1, JoinMethod: domain.JoinMethodOpen})
	assert.ErrorIs(t, err, domain.ErrAlreadyInClan)
}

func TestFetchOneNotFound(t *testing.T) {
	env := setup(t)
	clan := env.create(t, "Alpha", "A", 1)
	_, err := env.svc.Disband(context.Background(), clan.ID)
	require.NoError(t, err)

	for _, id := range []snowflake.ID{0, -1, 123456789, clan.ID} {
		_, err := env.svc.FetchOne(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrNotFound, "id %d", id)
	}
}

func TestFetchAllListsActiveOnly(t *testing.T) {
	env := setup(t)

	empty, err := env.svc.FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a := env.create(t, "Alpha", "A", 1)
	b := env.create(t, "Beta", "B", 2)
	c := env.create(t, "Gamma", "G", 3)
	_, err = env.svc.Disband(context.Background(), b.ID)
	require.NoError(t, err)

	all, err := env.svc.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, c.ID, all[1].ID)
}

func TestPartialUpdateNoFieldsIsNoop(t *testing.T) {
	env := setup(t)
	clan := env.create(t, "Alpha", "A", 1)
	env.clock.Advance(time.Minute)

	got, err := env.svc.PartialUpdate(context.Background(), clan.ID, domain.UpdateRequest{})
	require.NoError(t, err)
	assertSameClan(t, clan, got)
}

func TestPartialUpdateAppliesFields(t *testing.T) {
	env := setup(t)
	clan := env.create(t, "Alpha", "A", 1)
	env.clock.Advance(time.Minute)

	got, err := env.svc.PartialUpdate(context.Background(), clan.ID, domain.UpdateRequest{
		Name:        domain.Value(" Alpha Prime "),
		Description: domain.Value("new"),
		JoinMethod:  domain.Value(domain.JoinMethodInviteOnly),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Prime", got.Name)
	assert.Equal(t, "A", got.Tag)
	assert.Equal(t, "new", *got.Description)
	assert.Equal(t, domain.JoinMethodInviteOnly, got.JoinMethod)
	assert.True(t, startTime.Equal(got.CreatedAt))
	assert.True(t, startTime.Add(time.Minute).Equal(got.UpdatedAt))

	env.clock.Advance(time.Minute)
	cleared, err := env.svc.PartialUpdate(context.Background(), clan.ID, domain.UpdateRequest{
		Description: domain.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.True(t, cleared.UpdatedAt.After(got.UpdatedAt))
}

func TestPartialUpdateCollisions(t *testing.T) {
	env := setup(t)
	alpha := env.create(t, "Alpha", "A", 1)
	env.create(t, "Beta", "B", 2)

	_, err := env.svc.PartialUpdate(context.Background(), alpha.ID, domain.UpdateRequest{Tag: domain.Value("B")})
	assert.ErrorIs(t, err, domain.ErrTagExists)

	_, err = env.svc.PartialUpdate(context.Background(), alpha.ID, domain.UpdateRequest{Name: domain.Value("Beta")})
	assert.ErrorIs(t, err, domain.ErrNameExists)

	_, err = env.svc.PartialUpdate(context.Background(), alpha.ID, domain.UpdateRequest{
		Name: domain.Value("Beta"),
		Tag:  domain.Value("B"),
	})
	assert.ErrorIs(t, err, domain.ErrTagExists)

	_, err = env.svc.PartialUpdate(context.Background(), alpha.ID, domain.UpdateRequest{Owner: domain.Value(int64(2))})
	assert.ErrorIs(t, err, domain.ErrAlreadyInClan)

	unchanged, err := env.svc.FetchOne(context.Background(), alpha.ID)
	require.NoError(t, err)
	assertSameClan(t, alpha, unchanged)
}

func TestPartialUpdateToCurrentValuesIsAllowed(t *testing.T) {
	env := setup(t)
	clan := env.create(t, "Alpha", "A", 1)

	got, err := env.svc.PartialUpdate(context.Background(), clan.ID, domain.UpdateRequest{
		Name:  domain.Value("Alpha"),
		Tag:   domain.Value("A"),
		Owner: domain.Value(int64(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
}

func TestPartialUpdateTakesNameOfDeletedClan(t *testing.T) {
	env := setup(t)
	old := env.create(t, "Alpha", "A", 1)
	_, err := env.svc.Disband(context.Background(), old.ID)
	require.NoError(t, err)
	clan := env.create(t, "Beta", "B", 2)

	got, err := env.svc.PartialUpdate(context.Background(), clan.ID, domain.UpdateRequest{Name: domain.Value("Alpha")})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
}

func TestPartialUpdateValidation(t *testing.T) {
	env := setup(t)
	clan := env.create(t, "Alpha", "A", 1)

	cases := []struct {
		name string
		req  domain.UpdateRequest
		want error
	}{
		{"null name", domain.UpdateRequest{Name: domain.Null[string]()}, domain.ErrInvalidName},
		{"blank name", domain.UpdateRequest{Name: domain.Value(" ")}, domain.ErrInvalidName},
		{"null tag", domain.UpdateRequest{Tag: domain.Null[string]()}, domain.ErrInvalidTag},
		{"long tag", domain.UpdateRequest{Tag: domain.Value("TOOLONGTAG")}, domain.ErrInvalidTag},
		{"null owner", domain.UpdateRequest{Owner: domain.Null[int64]()}, domain.ErrInvalidOwner},
		{"negative owner", domain.UpdateRequest{Owner: domain.Value(int64(-5))}, domain.ErrInvalidOwner},
		{"bad join method", domain.UpdateRequest{JoinMethod: domain.Value(domain.JoinMethod("closed"))}, domain.ErrInvalidJoinMethod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.PartialUpdate(context.Background(), clan.ID, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPartialUpdateNotFound(t *testing.T) {
	env := setup(t)

	_, err := env.svc.PartialUpdate(context.Background(), 42, domain.UpdateRequest{Name: domain.Value("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	clan := env.create(t, "Alpha", "A", 1)
	_, err = env.svc.Disband(context.Background(), clan.ID)
	require.NoError(t, err)
	_, err = env.svc.PartialUpdate(context.Background(), clan.ID, domain.UpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDisband(t *testing.T) {
	env := setup(t)
	clan := env.create(t, "Alpha", "A", 1)
	env.clock.Advance(time.Minute)

	disbanded, err := env.svc.Disband(context.Background(), clan.ID)
	require.NoError(t, err)
	assert.Equal(t, clan.ID, disbanded.ID)
	assert.Equal(t, domain.StatusDeleted, disbanded.Status)
	assert.True(t, startTime.Equal(disbanded.CreatedAt))
	assert.True(t, startTime.Add(time.Minute).Equal(disbanded.UpdatedAt))

	_, err = env.svc.FetchOne(context.Background(), clan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.svc.Disband(context.Background(), clan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.svc.Disband(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDisbandDeactivatedClan(t *testing.T) {
	env := setup(t)
	clan := env.create(t, "Alpha", "A", 1)
	_, err := repository.Provide().PartialUpdate(context.Background(), env.db, clan.ID,
		domain.Update{Status: domain.Value(domain.StatusDeactivated)}, startTime)
	require.NoError(t, err)

	_, err = env.svc.PartialUpdate(context.Background(), clan.ID, domain.UpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	disbanded, err := env.svc.Disband(context.Background(), clan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeleted, disbanded.Status)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "not_found", outcome(domain.ErrNotFound))
	assert.Equal(t, "conflict", outcome(domain.ErrTagExists))
	assert.Equal(t, "invalid", outcome(domain.ErrInvalidName))
	assert.Equal(t, "error", outcome(fmt.Errorf("%w: boom", domain.ErrCannotCreate)))
	assert.Equal(t, "error", outcome(errors.New("boom")))
}
