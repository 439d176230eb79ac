package mysql

import (
	"database/sql"

	"social-blog-backend/internal/model"
	"social-blog-backend/internal/util"

	"go.uber.org/zap"
)

// groupRepository 实现了 GroupRepository 接口
type groupRepository struct {
	db *sql.DB
}

// NewGroupRepository 创建一个新的 groupRepository 实例
func NewGroupRepository(db *sql.DB) *groupRepository {
	return &groupRepository{db}
}

// Create 创建一个新分组，slug 必须唯一
func (r *groupRepository) Create(group *model.Group) error {
	query := "INSERT INTO `groups` (title, slug, description) VALUES (?, ?, ?)"
	result, err := r.db.Exec(query, group.Title, group.Slug, group.Description)
	if err != nil {
		util.Logger.Error("创建分组失败", zap.Error(err), zap.String("slug", group.Slug))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	group.ID = int(id)
	return nil
}

// GetBySlug 通过 slug 获取分组，不存在时返回 (nil, nil)
func (r *groupRepository) GetBySlug(slug string) (*model.Group, error) {
	query := "SELECT id, title, slug, description FROM `groups` WHERE slug = ?"
	var group model.Group
	err := r.db.QueryRow(query, slug).Scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// Delete 删除分组。引用该分组的帖子保留，分组引用置空
func (r *groupRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE posts SET group_id = NULL WHERE group_id = ?`, id); err != nil {
		util.Logger.Error("置空帖子的分组引用失败", zap.Error(err), zap.Int("group_id", id))
		return err
	}
	if _, err := tx.Exec("DELETE FROM `groups` WHERE id = ?", id); err != nil {
		util.Logger.Error("删除分组失败", zap.Error(err), zap.Int("group_id", id))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	util.Logger.Info("分组删除成功", zap.Int("group_id", id))
	return nil
}
