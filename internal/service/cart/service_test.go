package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type stubRepo struct {
	mergeLine   *domain.CartLine
	mergeErr    error
	mergeCalls  int
	lastMerge   cartrepo.MergeLineInput
	replaceN    int64
	replaceErr  error
	lastReplace struct {
		key     cartrepo.LineKey
		qty     int
		addedAt time.Time
	}
	replaceCalls int
	deleteN      int64
	deleteErr    error
	deleteCalls  int
	lastDelete   cartrepo.LineKey
	items        []domain.CartItem
	listErr      error
}

func (s *stubRepo) Merge(_ context.Context, in cartrepo.MergeLineInput) (*domain.CartLine, error) {
	s.mergeCalls++
	s.lastMerge = in
	return s.mergeLine, s.mergeErr
}

func (s *stubRepo) Replace(_ context.Context, key cartrepo.LineKey, quantity int, addedAt time.Time) (int64, error) {
	s.replaceCalls++
	s.lastReplace.key = key
	s.lastReplace.qty = quantity
	s.lastReplace.addedAt = addedAt
	return s.replaceN, s.replaceErr
}

func (s *stubRepo) Delete(_ context.Context, key cartrepo.LineKey) (int64, error) {
	s.deleteCalls++
	s.lastDelete = key
	return s.deleteN, s.deleteErr
}

func (s *stubRepo) ListByUser(_ context.Context, _ int64) ([]domain.CartItem, error) {
	return s.items, s.listErr
}

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestService(repo *stubRepo) *Service {
	return &Service{repo: repo, now: func() time.Time { return fixedNow }}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestAddToCart_DefaultsQuantityToOne(t *testing.T) {
	repo := &stubRepo{mergeLine: &domain.CartLine{ID: 1, Quantity: 1}}
	svc := newTestService(repo)

	line, err := svc.AddToCart(context.Background(), AddInput{UserID: 1, ProductID: 7, VariantID: int64Ptr(3)})
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.Equal(t, int64(1), line.ID)
	assert.Equal(t, 1, repo.lastMerge.Quantity)
	assert.True(t, repo.lastMerge.AddedAt.Equal(fixedNow), "added_at from clock, got %s", repo.lastMerge.AddedAt)
	require.NotNil(t, repo.lastMerge.Key.VariantID)
	assert.Equal(t, int64(3), *repo.lastMerge.Key.VariantID)
}

func TestAddToCart_ForwardsQuantityAndCategory(t *testing.T) {
	repo := &stubRepo{mergeLine: &domain.CartLine{ID: 2}}
	svc := newTestService(repo)

	_, err := svc.AddToCart(context.Background(), AddInput{UserID: 1, ProductID: 7, CategoryID: int64Ptr(9), Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, repo.lastMerge.Quantity)
	require.NotNil(t, repo.lastMerge.CategoryID)
	assert.Equal(t, int64(9), *repo.lastMerge.CategoryID)
	assert.Nil(t, repo.lastMerge.Key.VariantID)
}

func TestAddToCart_AcceptsMaxQuantity(t *testing.T) {
	repo := &stubRepo{mergeLine: &domain.CartLine{ID: 3}}
	_, err := newTestService(repo).AddToCart(context.Background(), AddInput{UserID: 1, ProductID: 2, Quantity: MaxQuantity})
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, repo.lastMerge.Quantity)
}

func TestAddToCart_ValidatesBeforeStore(t *testing.T) {
	cases := []struct {
		name  string
		in    AddInput
		field string
	}{
		{"negative quantity", AddInput{UserID: 1, ProductID: 2, Quantity: -1}, "quantity"},
		{"quantity past column range", AddInput{UserID: 1, ProductID: 2, Quantity: MaxQuantity + 1}, "quantity"},
		{"missing user", AddInput{ProductID: 2}, "user_id"},
		{"missing product", AddInput{UserID: 1}, "product_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepo{}
			_, err := newTestService(repo).AddToCart(context.Background(), tc.in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Zero(t, repo.mergeCalls, "store must not be called")
		})
	}
}

func TestAddToCart_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := newTestService(&stubRepo{mergeErr: storeErr})
	_, err := svc.AddToCart(context.Background(), AddInput{UserID: 1, ProductID: 2})
	assert.ErrorIs(t, err, storeErr)
}

func TestAddToCart_PropagatesMergeOverflow(t *testing.T) {
	overflow := domain.NewValidationError("quantity", "would take the line past its maximum")
	_, err := newTestService(&stubRepo{mergeErr: overflow}).AddToCart(context.Background(), AddInput{UserID: 1, ProductID: 2, Quantity: 5})
	assert.True(t, domain.IsValidation(err), "got %v", err)
}

func TestSetCartQuantity_NonPositiveDeletes(t *testing.T) {
	for _, qty := range []int{0, -3} {
		repo := &stubRepo{deleteN: 1}
		res, err := newTestService(repo).SetCartQuantity(context.Background(), QuantityInput{UserID: 1, ProductID: 2, Quantity: qty})
		require.NoError(t, err)
		assert.Equal(t, domain.QuantityResult{Deleted: true, Affected: 1}, res)
		assert.Equal(t, 1, repo.deleteCalls)
		assert.Zero(t, repo.replaceCalls)
		assert.Nil(t, repo.lastDelete.VariantID)
	}
}

func TestSetCartQuantity_DeleteMissReportsZero(t *testing.T) {
	repo := &stubRepo{deleteN: 0}
	res, err := newTestService(repo).SetCartQuantity(context.Background(), QuantityInput{UserID: 1, ProductID: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.QuantityResult{Deleted: true, Affected: 0}, res)
}

func TestSetCartQuantity_PositiveReplaces(t *testing.T) {
	repo := &stubRepo{replaceN: 1}
	res, err := newTestService(repo).SetCartQuantity(context.Background(), QuantityInput{
		UserID: 1, ProductID: 2, VariantID: int64Ptr(5), Quantity: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.QuantityResult{Affected: 1}, res)
	assert.Equal(t, 6, repo.lastReplace.qty)
	assert.True(t, repo.lastReplace.addedAt.Equal(fixedNow))
	require.NotNil(t, repo.lastReplace.key.VariantID)
	assert.Equal(t, int64(5), *repo.lastReplace.key.VariantID)
	assert.Zero(t, repo.deleteCalls)
}

func TestSetCartQuantity_RejectsQuantityPastColumnRange(t *testing.T) {
	repo := &stubRepo{replaceN: 1}
	_, err := newTestService(repo).SetCartQuantity(context.Background(), QuantityInput{UserID: 1, ProductID: 2, Quantity: MaxQuantity + 1})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)
	assert.Zero(t, repo.replaceCalls)
	assert.Zero(t, repo.deleteCalls)
}

func TestSetCartQuantity_UnknownProductReportsZero(t *testing.T) {
	repo := &stubRepo{replaceN: 0}
	res, err := newTestService(repo).SetCartQuantity(context.Background(), QuantityInput{UserID: 1, ProductID: 99, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.QuantityResult{}, res)
}

func TestListCart_NeverNil(t *testing.T) {
	items, err := newTestService(&stubRepo{}).ListCart(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListCart_RejectsInvalidUser(t *testing.T) {
	_, err := newTestService(&stubRepo{}).ListCart(context.Background(), 0)
	assert.True(t, domain.IsValidation(err), "got %v", err)
}
