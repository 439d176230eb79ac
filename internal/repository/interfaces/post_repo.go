package interfaces

import "social-blog-backend/internal/model"

// PostRepository 定义了帖子相关的数据库操作接口。
// 列表方法返回按发布时间倒序排列的完整快照，分页在上层完成
type PostRepository interface {
	Create(post *model.Post) error
	GetByID(id int) (*model.Post, error)
	// Update 只允许修改文本、分组和图片，作者和发布时间不可变
	Update(post *model.Post) error
	// Delete 将关联评论的帖子引用置空后删除帖子
	Delete(id int) error
	ListAll() ([]*model.Post, error)
	ListByGroup(groupID int) ([]*model.Post, error)
	ListByAuthor(authorID int) ([]*model.Post, error)
	// ListByFollowed 返回指定用户关注的所有作者的帖子
	ListByFollowed(userID int) ([]*model.Post, error)
	CountByAuthor(authorID int) (int, error)
}
