package interfaces

import "social-blog-backend/internal/model"

// UserRepository 接口定义了用户仓库应该实现的方法。
// 缺失的记录返回 (nil, nil)，由上层决定如何响应
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	UpdatePassword(userID int, passwordHash string) error
	// Delete 级联删除用户的帖子、评论和关注关系
	Delete(id int) error
	CreatePasswordReset(reset *model.PasswordReset) error
	FindPasswordReset(token string) (*model.PasswordReset, error)
	DeletePasswordReset(token string) error
}
