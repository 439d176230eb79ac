package interfaces

import "social-blog-backend/internal/model"

// GroupRepository 定义了分组相关的数据库操作接口
type GroupRepository interface {
	Create(group *model.Group) error
	GetBySlug(slug string) (*model.Group, error)
	// Delete 将引用该分组的帖子的分组引用置空后删除分组，帖子保留
	Delete(id int) error
}
