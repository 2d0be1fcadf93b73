package repositories_test

import (
	"context"
	"testing"

	"roti/internal/models"
	"roti/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultsOf(options []models.ProductSize) []string {
	var ids []string
	for _, o := range options {
		if o.IsDefault {
			ids = append(ids, o.SizeID)
		}
	}
	return ids
}

func TestProductSizeRepository_AttachKeepsSingleDefault(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := repositories.NewGORMProductSizeRepository(db)

	cake := seedProduct(t, db, "Chocolate Cake", "40.00", 10)
	small := seedSize(t, db, "Small", 4, "0")
	medium := seedSize(t, db, "Medium", 8, "10.00")
	large := seedSize(t, db, "Large", 12, "25.00")

	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: small.ID, IsDefault: true}))
	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: medium.ID}))

	option := &models.ProductSize{ProductID: cake.ID, SizeID: large.ID, IsDefault: true}
	require.NoError(t, repo.Attach(ctx, option))
	assert.Equal(t, 2, option.Position)
	assert.Equal(t, "Large", option.Size.Name)

	options, err := repo.ListByProduct(ctx, cake.ID)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, []string{small.ID, medium.ID, large.ID}, []string{options[0].SizeID, options[1].SizeID, options[2].SizeID})
	assert.Equal(t, []string{large.ID}, defaultsOf(options))

	count, err := repo.CountDefaults(ctx, cake.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestProductSizeRepository_AttachDuplicateRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := repositories.NewGORMProductSizeRepository(db)

	cake := seedProduct(t, db, "Carrot Cake", "30.00", 5)
	small := seedSize(t, db, "Small", 4, "0")
	medium := seedSize(t, db, "Medium", 8, "10.00")

	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: small.ID, IsDefault: true}))
	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: medium.ID}))

	// The default is cleared before the insert fails; the rollback must restore it.
	err := repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: medium.ID, IsDefault: true})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	options, err := repo.ListByProduct(ctx, cake.ID)
	require.NoError(t, err)
	assert.Len(t, options, 2)
	assert.Equal(t, []string{small.ID}, defaultsOf(options))
}

func TestProductSizeRepository_SetDefault(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := repositories.NewGORMProductSizeRepository(db)

	cake := seedProduct(t, db, "Lemon Cake", "35.00", 5)
	other := seedProduct(t, db, "Apple Pie", "20.00", 5)
	small := seedSize(t, db, "Small", 4, "0")
	medium := seedSize(t, db, "Medium", 8, "10.00")

	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: small.ID, IsDefault: true}))
	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: medium.ID}))
	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: other.ID, SizeID: small.ID, IsDefault: true}))

	option, err := repo.SetDefault(ctx, cake.ID, medium.ID)
	require.NoError(t, err)
	assert.True(t, option.IsDefault)
	assert.Equal(t, "Medium", option.Size.Name)

	// Repeating the call leaves the same state.
	_, err = repo.SetDefault(ctx, cake.ID, medium.ID)
	require.NoError(t, err)

	options, err := repo.ListByProduct(ctx, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{medium.ID}, defaultsOf(options))

	// Other products are untouched.
	otherOptions, err := repo.ListByProduct(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{small.ID}, defaultsOf(otherOptions))

	large := seedSize(t, db, "Large", 12, "25.00")
	_, err = repo.SetDefault(ctx, cake.ID, large.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	options, err = repo.ListByProduct(ctx, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{medium.ID}, defaultsOf(options))
}

func TestProductSizeRepository_ReplaceAll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := repositories.NewGORMProductSizeRepository(db)

	cake := seedProduct(t, db, "Red Velvet", "45.00", 5)
	small := seedSize(t, db, "Small", 4, "0")
	medium := seedSize(t, db, "Medium", 8, "10.00")
	large := seedSize(t, db, "Large", 12, "25.00")

	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: large.ID, IsDefault: true}))

	options, err := repo.ReplaceAll(ctx, cake.ID, []string{small.ID, medium.ID}, small.ID)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, small.ID, options[0].SizeID)
	assert.Equal(t, medium.ID, options[1].SizeID)
	assert.Equal(t, []string{small.ID}, defaultsOf(options))

	// Read back through a fresh listing.
	listed, err := repo.ListByProduct(ctx, cake.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Small", listed[0].Size.Name)
	assert.Equal(t, []string{small.ID}, defaultsOf(listed))

	// A default outside the set leaves no default.
	options, err = repo.ReplaceAll(ctx, cake.ID, []string{medium.ID}, large.ID)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Empty(t, defaultsOf(options))

	options, err = repo.ReplaceAll(ctx, cake.ID, nil, "")
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestProductSizeRepository_ReplaceAllDuplicateRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := repositories.NewGORMProductSizeRepository(db)

	cake := seedProduct(t, db, "Tiramisu", "50.00", 5)
	small := seedSize(t, db, "Small", 4, "0")

	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: small.ID, IsDefault: true}))

	_, err := repo.ReplaceAll(ctx, cake.ID, []string{small.ID, small.ID}, small.ID)
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	options, err := repo.ListByProduct(ctx, cake.ID)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.True(t, options[0].IsDefault)
}

func TestProductSizeRepository_Detach(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := repositories.NewGORMProductSizeRepository(db)

	cake := seedProduct(t, db, "Cheesecake", "38.00", 5)
	small := seedSize(t, db, "Small", 4, "0")
	medium := seedSize(t, db, "Medium", 8, "10.00")

	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: small.ID, IsDefault: true}))
	require.NoError(t, repo.Attach(ctx, &models.ProductSize{ProductID: cake.ID, SizeID: medium.ID}))

	require.NoError(t, repo.Detach(ctx, cake.ID, small.ID))

	options, err := repo.ListByProduct(ctx, cake.ID)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Empty(t, defaultsOf(options), "a detached default is not replaced")

	err = repo.Detach(ctx, cake.ID, small.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.Get(ctx, cake.ID, small.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
