package mysql

import (
	"database/sql"

	"social-blog-backend/internal/model"
	"social-blog-backend/internal/util"

	"go.uber.org/zap"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, created_at)
              VALUES (?, ?, ?, NOW())`
	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err), zap.String("username", user.Username))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, created_at
              FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRow(query, id))
}

// FindByEmail 通过邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, created_at
              FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRow(query, email))
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, created_at
              FROM users WHERE username = ?`
	return r.scanUser(r.db.QueryRow(query, username))
}

func (r *userRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePassword 更新用户密码哈希
func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	if err != nil {
		util.Logger.Error("更新密码失败", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}

// Delete 删除用户，级联删除其帖子、评论和关注关系。
// 帖子下他人的评论保留，帖子引用置空
func (r *userRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM follows WHERE user_id = ? OR author_id = ?`,
		`UPDATE comments SET post_id = NULL
		 WHERE post_id IN (SELECT id FROM posts WHERE author_id = ?)`,
		`DELETE FROM comments WHERE author_id = ?`,
		`DELETE FROM posts WHERE author_id = ?`,
		`DELETE FROM password_resets WHERE user_id = ?`,
		`DELETE FROM users WHERE id = ?`,
	}
	args := [][]interface{}{
		{id, id}, {id}, {id}, {id}, {id}, {id},
	}
	for i, query := range steps {
		if _, err := tx.Exec(query, args[i]...); err != nil {
			util.Logger.Error("删除用户失败", zap.Error(err), zap.Int("user_id", id))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	util.Logger.Info("用户删除成功", zap.Int("user_id", id))
	return nil
}

// CreatePasswordReset 保存密码重置令牌
func (r *userRepository) CreatePasswordReset(reset *model.PasswordReset) error {
	query := `INSERT INTO password_resets (user_id, token, expires_at, created_at)
              VALUES (?, ?, ?, NOW())`
	result, err := r.db.Exec(query, reset.UserID, reset.Token, reset.ExpiresAt)
	if err != nil {
		util.Logger.Error("保存密码重置令牌失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	reset.ID = int(id)
	return nil
}

// FindPasswordReset 通过令牌查找密码重置记录
func (r *userRepository) FindPasswordReset(token string) (*model.PasswordReset, error) {
	query := `SELECT id, user_id, token, expires_at, created_at
              FROM password_resets WHERE token = ?`
	var reset model.PasswordReset
	err := r.db.QueryRow(query, token).Scan(
		&reset.ID, &reset.UserID, &reset.Token, &reset.ExpiresAt, &reset.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &reset, nil
}

// DeletePasswordReset 删除已使用的密码重置令牌
func (r *userRepository) DeletePasswordReset(token string) error {
	_, err := r.db.Exec(`DELETE FROM password_resets WHERE token = ?`, token)
	return err
}
