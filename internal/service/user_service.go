package service

import (
	"time"

	"social-blog-backend/internal/errors"
	"social-blog-backend/internal/model"
	"social-blog-backend/internal/repository/interfaces"
	"social-blog-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// 密码重置令牌的有效期
const passwordResetTTL = 24 * time.Hour

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo     interfaces.UserRepository
	emailService *EmailService
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, emailService *EmailService) *UserService {
	return &UserService{
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Register 注册新用户，用户名和邮箱必须唯一
func (s *UserService) Register(user *model.User, password string) error {
	existing, err := s.userRepo.FindByUsername(user.Username)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "用户名已被使用")
	}

	existing, err = s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "邮箱已被注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Create(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}
	util.Logger.Info("新用户注册", zap.String("username", user.Username))
	return nil
}

// Authenticate 校验用户名和密码，成功返回用户
func (s *UserService) Authenticate(username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "用户名或密码错误")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "用户名或密码错误")
	}
	return user, nil
}

// GetByID 通过ID获取用户，不存在时返回 (nil, nil)
func (s *UserService) GetByID(id int) (*model.User, error) {
	return s.userRepo.FindByID(id)
}

// GetByUsername 通过用户名获取用户，不存在时返回 (nil, nil)
func (s *UserService) GetByUsername(username string) (*model.User, error) {
	return s.userRepo.FindByUsername(username)
}

// DeleteUser 删除用户并级联清理其内容
func (s *UserService) DeleteUser(id int) error {
	return s.userRepo.Delete(id)
}

// RequestPasswordReset 生成密码重置令牌并发送邮件。
// 邮箱不存在时静默返回，不向调用方泄露注册状态
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		util.Logger.Info("密码重置请求的邮箱未注册", zap.String("email", email))
		return nil
	}

	reset := &model.PasswordReset{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(passwordResetTTL),
	}
	if err := s.userRepo.CreatePasswordReset(reset); err != nil {
		return errors.Wrap(errors.ErrDatabase, "保存重置令牌失败", err)
	}

	return s.emailService.SendPasswordResetEmail(user.Email, user.Username, reset.Token)
}

// ResetPassword 用有效令牌设置新密码，令牌一次性使用
func (s *UserService) ResetPassword(token, newPassword string) error {
	reset, err := s.userRepo.FindPasswordReset(token)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询重置令牌失败", err)
	}
	if reset == nil {
		return errors.New(errors.ErrNotFound, "重置令牌无效")
	}
	if time.Now().After(reset.ExpiresAt) {
		return errors.New(errors.ErrTokenExpired, "重置令牌已过期")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}
	if err := s.userRepo.UpdatePassword(reset.UserID, string(hash)); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新密码失败", err)
	}
	if err := s.userRepo.DeletePasswordReset(token); err != nil {
		util.Logger.Error("删除已用重置令牌失败", zap.Error(err))
	}
	util.Logger.Info("密码重置成功", zap.Int("user_id", reset.UserID))
	return nil
}
