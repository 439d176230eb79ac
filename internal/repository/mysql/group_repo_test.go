package mysql

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroupMock(t *testing.T) (*groupRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGroupRepository(db), mock
}

// TestGroupRepoDeleteKeepsPosts 删除分组先置空帖子的分组引用，
// 帖子本身保留
func TestGroupRepoDeleteKeepsPosts(t *testing.T) {
	repo, mock := newGroupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE posts SET group_id = NULL WHERE group_id").
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `groups` WHERE id").
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestGroupRepoGetBySlugMissing 缺失的分组返回 (nil, nil)
func TestGroupRepoGetBySlugMissing(t *testing.T) {
	repo, mock := newGroupMock(t)

	mock.ExpectQuery("WHERE slug").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "description"}))

	group, err := repo.GetBySlug("nope")
	require.NoError(t, err)
	assert.Nil(t, group)
}
