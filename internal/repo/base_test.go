package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbhouse/bakery-backend/pkg/db/dbtest"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

func TestBaseDB_BindsContext(t *testing.T) {
	client := dbtest.Open(t)
	base := NewBase(client.DB())

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	assert.Equal(t, ctx, withCtx.Statement.Context)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%555%", ContainsPattern(" 555 "))
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_OFF"))
	assert.Equal(t, `%a\\b%`, ContainsPattern(`a\b`))
}

func TestContainsPatternMatchesLiterally(t *testing.T) {
	client := dbtest.Open(t)
	conn := client.DB()
	require.NoError(t, conn.Create(&models.Review{Name: "100% butter", Email: "a@x.io", Product: "p", Rating: 5, Review: "r"}).Error)
	require.NoError(t, conn.Create(&models.Review{Name: "1000 butter", Email: "b@x.io", Product: "p", Rating: 5, Review: "r"}).Error)

	var names []string
	err := conn.Model(&models.Review{}).
		Where("LOWER(name) LIKE ? "+LikeEscape, ContainsPattern("100%")).
		Pluck("name", &names).Error
	require.NoError(t, err)
	assert.Equal(t, []string{"100% butter"}, names)
}

func TestByRefAndPage(t *testing.T) {
	client := dbtest.Open(t)
	conn := client.DB()
	for i := 0; i < 5; i++ {
		require.NoError(t, conn.Create(&models.Review{Name: "n", Email: "e@x.io", Product: "p", Rating: 3, Review: "r"}).Error)
	}
	var first models.Review
	require.NoError(t, conn.Order("created_at ASC").First(&first).Error)

	var found models.Review
	require.NoError(t, conn.Scopes(ByRef(first.ID.String(), "name")).First(&found).Error)
	assert.Equal(t, first.ID, found.ID)

	var page []models.Review
	require.NoError(t, conn.Scopes(Page(pagination.Params{Page: 2, Limit: 2})).Find(&page).Error)
	assert.Len(t, page, 2)
}
