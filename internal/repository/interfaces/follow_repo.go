package interfaces

import "social-blog-backend/internal/model"

// FollowRepository 定义了关注关系的数据库操作接口
type FollowRepository interface {
	// Create 幂等创建，已存在的关注关系不会重复插入也不会报错
	Create(follow *model.Follow) error
	// Delete 删除关注关系，不存在时静默返回
	Delete(userID, authorID int) error
	Exists(userID, authorID int) (bool, error)
}
