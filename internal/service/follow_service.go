package service

import (
	"social-blog-backend/internal/model"
	"social-blog-backend/internal/repository/interfaces"
	"social-blog-backend/internal/util"

	"go.uber.org/zap"
)

// FollowService 处理关注关系的业务逻辑
type FollowService struct {
	followRepo interfaces.FollowRepository
}

// NewFollowService 创建一个新的 FollowService 实例
func NewFollowService(followRepo interfaces.FollowRepository) *FollowService {
	return &FollowService{followRepo}
}

// Follow 关注作者。自我关注是静默的空操作，重复关注幂等
func (s *FollowService) Follow(userID, authorID int) error {
	if userID == authorID {
		util.Logger.Info("忽略自我关注", zap.Int("user_id", userID))
		return nil
	}
	return s.followRepo.Create(&model.Follow{
		UserID:   userID,
		AuthorID: authorID,
	})
}

// Unfollow 取消关注。关系不存在时是静默的空操作
func (s *FollowService) Unfollow(userID, authorID int) error {
	return s.followRepo.Delete(userID, authorID)
}

// IsFollowing 判断用户是否关注了作者
func (s *FollowService) IsFollowing(userID, authorID int) (bool, error) {
	return s.followRepo.Exists(userID, authorID)
}
