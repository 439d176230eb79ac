package model

import "time"

// Group 帖子分组，slug 唯一并用于分组页地址
type Group struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Post 用户发布的帖子，可以带一张图片并归属一个分组
type Post struct {
	ID        int       `json:"id"`
	AuthorID  int       `json:"author_id"`
	Text      string    `json:"text"`
	GroupID   *int      `json:"group_id,omitempty"` // 分组被删除后置空，帖子保留
	ImagePath string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Author    *User     `json:"author,omitempty"`
	Group     *Group    `json:"group,omitempty"`
}

// Comment 帖子评论。帖子被删除后 PostID 置空，评论保留
type Comment struct {
	ID        int       `json:"id"`
	PostID    *int      `json:"post_id,omitempty"`
	AuthorID  int       `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    *User     `json:"author,omitempty"`
}

// Follow 关注关系，(user_id, author_id) 唯一
type Follow struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`   // 关注者
	AuthorID  int       `json:"author_id"` // 被关注的作者
	CreatedAt time.Time `json:"created_at"`
}
