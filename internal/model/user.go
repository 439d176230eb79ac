package model

import "time"

// User 结构体表示用户模型，用户名唯一并用于个人主页地址
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // 密码哈希不应在JSON中暴露
	CreatedAt    time.Time `json:"created_at"`
}

// PasswordReset 密码重置令牌，过期后不可使用
type PasswordReset struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
