package interfaces

import "social-blog-backend/internal/model"

// CommentRepository 定义了评论相关的数据库操作接口
type CommentRepository interface {
	Create(comment *model.Comment) error
	ListByPost(postID int) ([]*model.Comment, error)
}
