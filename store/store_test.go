package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paperpaints/common"
	"paperpaints/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), common.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestGormStore_CreateGetList(t *testing.T) {
	ctx := context.Background()
	s := New[models.Product](setupTestDB(t))

	first := &models.Product{ProductName: "Primer"}
	require.NoError(t, s.Create(ctx, first))
	time.Sleep(2 * time.Millisecond)
	second := &models.Product{ProductName: "Enamel", Features: models.Lines{"Glossy", "Durable"}.Slice()}
	require.NoError(t, s.Create(ctx, second))

	assert.True(t, models.ValidID(first.ID))
	assert.False(t, first.CreatedAt.IsZero())

	got, err := s.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Enamel", got.ProductName)
	assert.Equal(t, []string{"Glossy", "Durable"}, []string(got.Features))

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

func TestGormStore_UpdateChangesOnlyAppliedFields(t *testing.T) {
	ctx := context.Background()
	s := New[models.TeamMember](setupTestDB(t))

	member := &models.TeamMember{Name: "Ana", JobTitle: "Chemist", Bio: "Paints"}
	require.NoError(t, s.Create(ctx, member))

	updated, err := s.Update(ctx, member.ID, func(m *models.TeamMember) error {
		m.JobTitle = "Lead Chemist"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Lead Chemist", updated.JobTitle)
	assert.Equal(t, "Ana", updated.Name)
	assert.Equal(t, "Paints", updated.Bio)

	reloaded, err := s.Get(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lead Chemist", reloaded.JobTitle)
	assert.Equal(t, "Ana", reloaded.Name)
}

func TestGormStore_UpdateApplyErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New[models.TeamMember](setupTestDB(t))

	member := &models.TeamMember{Name: "Ana"}
	require.NoError(t, s.Create(ctx, member))

	bad := common.Validation("Invalid")
	_, err := s.Update(ctx, member.ID, func(m *models.TeamMember) error {
		m.Name = "Changed"
		return bad
	})
	assert.ErrorIs(t, err, bad)

	reloaded, err := s.Get(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", reloaded.Name)
}

func TestGormStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := New[models.Project](setupTestDB(t))

	_, err := s.Get(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Update(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV", func(*models.Project) error { return nil })
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Delete(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGormStore_DeleteThenGet(t *testing.T) {
	ctx := context.Background()
	s := New[models.ContactSubmission](setupTestDB(t))

	sub := &models.ContactSubmission{Name: "Joe", Email: "joe@example.com"}
	require.NoError(t, s.Create(ctx, sub))

	deleted, err := s.Delete(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joe", deleted.Name)

	_, err = s.Get(ctx, sub.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGormStore_ListPropagatesDriverErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), common.GormConfig())
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "products"`).WillReturnError(errors.New("connection reset by peer"))

	_, err = New[models.Product](db).List(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmins(t *testing.T) {
	ctx := context.Background()
	s := NewAdmins(setupTestDB(t))

	exists, err := s.Any(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	admin := &models.Admin{Email: "  Owner@Example.com ", PasswordHash: "hash"}
	require.NoError(t, s.Create(ctx, admin))
	assert.Equal(t, "owner@example.com", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	exists, err = s.Any(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := s.FindByEmail(ctx, "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)

	byID, err := s.Get(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", byID.Email)

	_, err = s.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = s.Create(ctx, &models.Admin{Email: "owner@example.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, common.ErrConflict)
}
