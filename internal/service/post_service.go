package service

import (
	"social-blog-backend/internal/model"
	"social-blog-backend/internal/repository/interfaces"
)

// PostService 处理帖子、分组和评论的业务逻辑
type PostService struct {
	postRepo    interfaces.PostRepository
	groupRepo   interfaces.GroupRepository
	commentRepo interfaces.CommentRepository
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(postRepo interfaces.PostRepository, groupRepo interfaces.GroupRepository, commentRepo interfaces.CommentRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
	}
}

func (s *PostService) CreatePost(post *model.Post) error {
	return s.postRepo.Create(post)
}

// GetPostByID 获取帖子，不存在时返回 (nil, nil)
func (s *PostService) GetPostByID(id int) (*model.Post, error) {
	return s.postRepo.GetByID(id)
}

func (s *PostService) UpdatePost(post *model.Post) error {
	return s.postRepo.Update(post)
}

// DeletePost 删除帖子，关联评论保留且帖子引用置空
func (s *PostService) DeletePost(id int) error {
	return s.postRepo.Delete(id)
}

// ListAllPosts 返回全部帖子，按发布时间倒序
func (s *PostService) ListAllPosts() ([]*model.Post, error) {
	return s.postRepo.ListAll()
}

func (s *PostService) ListGroupPosts(groupID int) ([]*model.Post, error) {
	return s.postRepo.ListByGroup(groupID)
}

func (s *PostService) ListAuthorPosts(authorID int) ([]*model.Post, error) {
	return s.postRepo.ListByAuthor(authorID)
}

// ListFollowedPosts 返回用户关注的作者们的帖子
func (s *PostService) ListFollowedPosts(userID int) ([]*model.Post, error) {
	return s.postRepo.ListByFollowed(userID)
}

func (s *PostService) CountAuthorPosts(authorID int) (int, error) {
	return s.postRepo.CountByAuthor(authorID)
}

// GetGroupBySlug 获取分组，不存在时返回 (nil, nil)
func (s *PostService) GetGroupBySlug(slug string) (*model.Group, error) {
	return s.groupRepo.GetBySlug(slug)
}

func (s *PostService) CreateGroup(group *model.Group) error {
	return s.groupRepo.Create(group)
}

// DeleteGroup 删除分组，引用它的帖子保留
func (s *PostService) DeleteGroup(id int) error {
	return s.groupRepo.Delete(id)
}

func (s *PostService) AddComment(comment *model.Comment) error {
	return s.commentRepo.Create(comment)
}

func (s *PostService) ListComments(postID int) ([]*model.Comment, error) {
	return s.commentRepo.ListByPost(postID)
}
