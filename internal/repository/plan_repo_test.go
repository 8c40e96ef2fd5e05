package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/api_access_gate/internal/model"
	"github.com/qs3c/api_access_gate/internal/testutil"
)

func TestPlanRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)
	ctx := context.Background()

	plan := &model.Plan{
		ID:                 uuid.Must(uuid.NewV7()).String(),
		Name:               "starter",
		PermittedEndpoints: []string{"read", "write"},
		Quota:              10,
	}
	require.NoError(t, repo.Create(ctx, plan))

	found, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "starter", found.Name)
	assert.ElementsMatch(t, []string{"read", "write"}, []string(found.PermittedEndpoints))
	assert.Equal(t, int64(10), found.Quota)
}

func TestPlanRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPlanRepository_GetByIDForUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)
	plan := testutil.TestPlan(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		found, err := repo.WithTx(tx).GetByIDForUpdate(context.Background(), plan.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, plan.ID, found.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestPlanRepository_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)
	testutil.TestPlan(t, db, testutil.WithPlanName("pro"))

	err := repo.Create(context.Background(), &model.Plan{
		ID:                 uuid.Must(uuid.NewV7()).String(),
		Name:               "pro",
		PermittedEndpoints: []string{},
	})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestPlanRepository_List_CreationOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)

	first := testutil.TestPlan(t, db, testutil.WithPlanName("first"))
	second := testutil.TestPlan(t, db, testutil.WithPlanName("second"))
	third := testutil.TestPlan(t, db, testutil.WithPlanName("third"))

	plans, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, first.ID, plans[0].ID)
	assert.Equal(t, second.ID, plans[1].ID)
	assert.Equal(t, third.ID, plans[2].ID)
}

func TestPlanRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)
	ctx := context.Background()
	plan := testutil.TestPlan(t, db)

	affected, err := repo.Delete(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Delete(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestPlanRepository_ExistsByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)
	ctx := context.Background()
	plan := testutil.TestPlan(t, db, testutil.WithPlanName("basic"))

	exists, err := repo.ExistsByName(ctx, "basic", "")
	require.NoError(t, err)
	assert.True(t, exists)

	// 排除自身后不算冲突
	exists, err = repo.ExistsByName(ctx, "basic", plan.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByName(ctx, "nope", "")
	require.NoError(t, err)
	assert.False(t, exists)
}
