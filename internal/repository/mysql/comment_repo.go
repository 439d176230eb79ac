package mysql

import (
	"database/sql"

	"social-blog-backend/internal/model"
	"social-blog-backend/internal/util"

	"go.uber.org/zap"
)

// commentRepository 实现了 CommentRepository 接口
type commentRepository struct {
	db *sql.DB
}

// NewCommentRepository 创建一个新的 commentRepository 实例
func NewCommentRepository(db *sql.DB) *commentRepository {
	return &commentRepository{db}
}

// Create 创建一条评论
func (r *commentRepository) Create(comment *model.Comment) error {
	query := `INSERT INTO comments (post_id, author_id, text, created_at)
              VALUES (?, ?, ?, NOW())`
	result, err := r.db.Exec(query, comment.PostID, comment.AuthorID, comment.Text)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	util.Logger.Info("评论创建成功", zap.Int("comment_id", comment.ID))
	return nil
}

// ListByPost 返回帖子的全部评论，按时间正序
func (r *commentRepository) ListByPost(postID int) ([]*model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.db.Query(query, postID)
	if err != nil {
		util.Logger.Error("查询评论失败", zap.Error(err), zap.Int("post_id", postID))
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var (
			comment model.Comment
			author  model.User
			postRef sql.NullInt64
		)
		err := rows.Scan(&comment.ID, &postRef, &comment.AuthorID, &comment.Text, &comment.CreatedAt, &author.Username)
		if err != nil {
			return nil, err
		}
		if postRef.Valid {
			id := int(postRef.Int64)
			comment.PostID = &id
		}
		author.ID = comment.AuthorID
		comment.Author = &author
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}
