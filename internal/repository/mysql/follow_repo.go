package mysql

import (
	"database/sql"

	"social-blog-backend/internal/model"
	"social-blog-backend/internal/util"

	"go.uber.org/zap"
)

// followRepository 实现了 FollowRepository 接口
type followRepository struct {
	db *sql.DB
}

// NewFollowRepository 创建一个新的 followRepository 实例
func NewFollowRepository(db *sql.DB) *followRepository {
	return &followRepository{db}
}

// Create 创建关注关系。(user_id, author_id) 有唯一约束，
// INSERT IGNORE 保证重复关注不报错也不产生第二行
func (r *followRepository) Create(follow *model.Follow) error {
	query := `INSERT IGNORE INTO follows (user_id, author_id, created_at)
              VALUES (?, ?, NOW())`
	result, err := r.db.Exec(query, follow.UserID, follow.AuthorID)
	if err != nil {
		util.Logger.Error("创建关注关系失败", zap.Error(err),
			zap.Int("user_id", follow.UserID), zap.Int("author_id", follow.AuthorID))
		return err
	}
	if id, err := result.LastInsertId(); err == nil && id > 0 {
		follow.ID = int(id)
	}
	return nil
}

// Delete 删除关注关系，不存在时是静默的空操作
func (r *followRepository) Delete(userID, authorID int) error {
	query := `DELETE FROM follows WHERE user_id = ? AND author_id = ?`
	_, err := r.db.Exec(query, userID, authorID)
	if err != nil {
		util.Logger.Error("删除关注关系失败", zap.Error(err),
			zap.Int("user_id", userID), zap.Int("author_id", authorID))
	}
	return err
}

// Exists 判断关注关系是否存在
func (r *followRepository) Exists(userID, authorID int) (bool, error) {
	var one int
	query := `SELECT 1 FROM follows WHERE user_id = ? AND author_id = ? LIMIT 1`
	err := r.db.QueryRow(query, userID, authorID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
