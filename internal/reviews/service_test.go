package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbhouse/bakery-backend/pkg/db/dbtest"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t).DB()))
	require.NoError(t, err)
	return svc
}

func validReview() CreateInput {
	return CreateInput{Name: "Ben", Email: "ben@example.com", Product: "Red Velvet", Rating: 5, Review: "Moist and rich"}
}

func TestCreateDefaultsToPending(t *testing.T) {
	svc := newTestService(t)
	review, err := svc.Create(context.Background(), validReview())
	require.NoError(t, err)
	assert.Equal(t, enums.ReviewStatusPending, review.Status)
	assert.NotEqual(t, uuid.Nil, review.ID)
}

func TestCreateRejectsOutOfRangeRatingAndMissingFields(t *testing.T) {
	svc := newTestService(t)
	for _, rating := range []int{0, 6} {
		input := validReview()
		input.Rating = rating
		_, err := svc.Create(context.Background(), input)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	}

	_, err := svc.Create(context.Background(), CreateInput{Rating: 3})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details := typed.Details().(map[string]string)
	assert.Len(t, details, 4)

	reviews, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestStatusUpdateRejectsUnknownValueWithoutWriting(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	review, err := svc.Create(ctx, validReview())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, review.ID.String(), "Closed")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	got, err := svc.Get(ctx, review.ID.String())
	require.NoError(t, err)
	assert.Equal(t, enums.ReviewStatusPending, got.Status)

	solved, err := svc.UpdateStatus(ctx, review.ID.String(), "Solved")
	require.NoError(t, err)
	assert.Equal(t, enums.ReviewStatusSolved, solved.Status)
}

func TestPartialUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	review, err := svc.Create(ctx, validReview())
	require.NoError(t, err)

	rating := 4
	text := "Still great"
	updated, err := svc.Update(ctx, review.ID.String(), UpdateInput{Rating: &rating, Review: &text})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "Still great", updated.Review)
	assert.Equal(t, "Ben", updated.Name)

	bad := 9
	_, err = svc.Update(ctx, review.ID.String(), UpdateInput{Rating: &bad})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.Delete(ctx, review.ID.String()))
	_, err = svc.Get(ctx, review.ID.String())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, review.ID.String()), pkgerrors.CodeNotFound))
	_, err = svc.Get(ctx, "nope")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	first, err := svc.Create(ctx, validReview())
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Create(ctx, validReview())
	require.NoError(t, err)

	reviews, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)
}

func TestEmailMustBeBareAddress(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := validReview()
	input.Email = "Ben Baker <ben@example.com>"
	_, err := svc.Create(ctx, input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Contains(t, pkgerrors.As(err).Details(), "email")

	review, err := svc.Create(ctx, validReview())
	require.NoError(t, err)

	for _, bad := range []string{"Ben Baker <ben@example.com>", "ben@", "  "} {
		email := bad
		_, err = svc.Update(ctx, review.ID.String(), UpdateInput{Email: &email})
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), bad)
	}
	got, err := svc.Get(ctx, review.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "ben@example.com", got.Email)

	email := " Ben.Baker@Example.com "
	updated, err := svc.Update(ctx, review.ID.String(), UpdateInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "ben.baker@example.com", updated.Email)
}
