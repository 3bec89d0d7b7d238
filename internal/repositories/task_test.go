package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planedge/backend/internal/models"
	"planedge/backend/internal/repositories"
	"planedge/backend/testutil"
)

func TestTaskRepository_ListPagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "owner@example.com")
	project := testutil.SeedProject(t, db, user.ID, "Inbox")
	for i := 1; i <= 12; i++ {
		testutil.SeedTask(t, db, project.ID, fmt.Sprintf("Task %02d", i), false)
	}
	repo := repositories.NewTaskRepository(db)

	page1, err := repo.List(ctx, repositories.TaskQuery{UserID: user.ID, Filter: models.FilterAll, Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, page1.Data, 10)
	assert.Equal(t, models.PageMeta{CurrentPage: 1, LastPage: 2, PerPage: 10, Total: 12, From: 1, To: 10}, page1.PageMeta)

	page2, err := repo.List(ctx, repositories.TaskQuery{UserID: user.ID, Filter: models.FilterAll, Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 2)
	assert.Equal(t, 11, page2.From)
	assert.Equal(t, 12, page2.To)

	// ページを連結すると重複も欠落もなく total 件になる
	seen := map[int]bool{}
	for _, task := range append(page1.Data, page2.Data...) {
		assert.False(t, seen[task.ID], "duplicate task %d", task.ID)
		seen[task.ID] = true
	}
	assert.Len(t, seen, page1.Total)

	// 範囲外は最終ページに丸められる
	clamped, err := repo.List(ctx, repositories.TaskQuery{UserID: user.ID, Filter: models.FilterAll, Page: 99, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, clamped.CurrentPage)
	assert.Len(t, clamped.Data, 2)
}

func TestTaskRepository_ListFilterAndSearch(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "owner@example.com")
	project := testutil.SeedProject(t, db, user.ID, "Home")
	testutil.SeedTask(t, db, project.ID, "Buy Milk", true)
	testutil.SeedTask(t, db, project.ID, "Walk the dog", false)
	testutil.SeedTask(t, db, project.ID, "100% done_report", false)
	repo := repositories.NewTaskRepository(db)

	list := func(filter models.TaskFilter, search string) *models.TaskPage {
		page, err := repo.List(ctx, repositories.TaskQuery{UserID: user.ID, Filter: filter, Search: search, Page: 1, PerPage: 10})
		require.NoError(t, err)
		return page
	}

	completed := list(models.FilterCompleted, "")
	pending := list(models.FilterPending, "")
	all := list(models.FilterAll, "")
	assert.Equal(t, 1, completed.Total)
	assert.Equal(t, 2, pending.Total)
	assert.Equal(t, completed.Total+pending.Total, all.Total)
	for _, task := range completed.Data {
		assert.True(t, task.IsCompleted)
	}
	for _, task := range pending.Data {
		assert.False(t, task.IsCompleted)
	}

	milk := list(models.FilterAll, "MILK")
	require.Len(t, milk.Data, 1)
	assert.Equal(t, "Buy Milk", milk.Data[0].Title)
	assert.Equal(t, "Home", milk.Data[0].Project.Title)

	assert.Zero(t, list(models.FilterAll, "nothing like this").Total)

	// ワイルドカードはリテラルとして扱われる
	assert.Equal(t, 1, list(models.FilterAll, "100%").Total)
	assert.Equal(t, 1, list(models.FilterAll, "done_").Total)
	assert.Zero(t, list(models.FilterAll, "%x%").Total)

	empty := list(models.FilterCompleted, "dog")
	assert.Zero(t, empty.Total)
	assert.Equal(t, 1, empty.LastPage)
	assert.Empty(t, empty.Data)
}

func TestTaskRepository_SearchUnicodeCaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "owner@example.com")
	project := testutil.SeedProject(t, db, user.ID, "Büro")
	testutil.SeedTask(t, db, project.ID, "Ärger mit ÜBERWEISUNG", false)
	testutil.SeedTask(t, db, project.ID, "Café Öffnungszeiten", true)
	repo := repositories.NewTaskRepository(db)

	total := func(search string) int {
		page, err := repo.List(ctx, repositories.TaskQuery{UserID: user.ID, Filter: models.FilterAll, Search: search, Page: 1, PerPage: 10})
		require.NoError(t, err)
		return page.Total
	}

	for _, search := range []string{"Ärger", "ärger", "ÄRGER", "überweisung", "ÜberWeisung", "mit"} {
		assert.Equal(t, 1, total(search), search)
	}
	assert.Equal(t, 1, total("CAFÉ"))
	assert.Equal(t, 1, total("öffnung"))
	assert.Zero(t, total("ärgerlich"))
}

func TestTaskRepository_SearchMatchesDescription(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "owner@example.com")
	project := testutil.SeedProject(t, db, user.ID, "Work")
	repo := repositories.NewTaskRepository(db)

	desc := "Quarterly numbers for the board"
	_, err := repo.Create(ctx, &models.Task{ProjectID: project.ID, Title: "Prepare report", Description: &desc})
	require.NoError(t, err)

	page, err := repo.List(ctx, repositories.TaskQuery{UserID: user.ID, Search: "quarterly", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestTaskRepository_ScopedToUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "owner@example.com")
	other := testutil.SeedUser(t, db, "other@example.com")
	project := testutil.SeedProject(t, db, owner.ID, "Private")
	task := testutil.SeedTask(t, db, project.ID, "Secret", false)
	repo := repositories.NewTaskRepository(db)

	page, err := repo.List(ctx, repositories.TaskQuery{UserID: other.ID, Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	task.Title = "Hijacked"
	_, err = repo.Update(ctx, other.ID, task)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)

	err = repo.Delete(ctx, task.ID, other.ID)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret", found.Title)
	assert.Equal(t, owner.ID, found.OwnerID())
}

func TestTaskRepository_CreateUpdateDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "owner@example.com")
	first := testutil.SeedProject(t, db, user.ID, "First")
	second := testutil.SeedProject(t, db, user.ID, "Second")
	repo := repositories.NewTaskRepository(db)

	due, err := models.ParseDate("2025-06-30")
	require.NoError(t, err)
	created, err := repo.Create(ctx, &models.Task{ProjectID: first.ID, Title: "Draft", DueDate: &due})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2025-06-30", created.DueDate.String())
	assert.Nil(t, created.Description)
	assert.False(t, created.IsCompleted)

	created.ProjectID = second.ID
	created.Title = "Final"
	created.DueDate = nil
	created.IsCompleted = true
	updated, err := repo.Update(ctx, user.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, second.ID, updated.ProjectID)
	assert.Equal(t, "Second", updated.Project.Title)
	assert.Nil(t, updated.DueDate)
	assert.True(t, updated.IsCompleted)

	require.NoError(t, repo.Delete(ctx, created.ID, user.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
}

func TestTaskRepository_CountByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "owner@example.com")
	project := testutil.SeedProject(t, db, user.ID, "Stats")
	testutil.SeedTask(t, db, project.ID, "a", true)
	testutil.SeedTask(t, db, project.ID, "b", true)
	testutil.SeedTask(t, db, project.ID, "c", false)
	repo := repositories.NewTaskRepository(db)

	total, completed, err := repo.CountByStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, completed)
}
