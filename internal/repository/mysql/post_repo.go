package mysql

import (
	"database/sql"

	"social-blog-backend/internal/model"
	"social-blog-backend/internal/util"

	"go.uber.org/zap"
)

// postRepository 实现了 PostRepository 接口
type postRepository struct {
	db *sql.DB
}

// NewPostRepository 创建一个新的 postRepository 实例
func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db}
}

// 列表查询统一连接作者和分组信息，按发布时间倒序，
// 同一时间用ID保证插入顺序稳定
const selectPosts = `
	SELECT p.id, p.author_id, p.text, p.group_id, p.image, p.created_at,
	       u.username, g.title, g.slug
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN ` + "`groups`" + ` g ON g.id = p.group_id`

const orderPosts = ` ORDER BY p.created_at DESC, p.id DESC`

// Create 创建一个新帖子，发布时间由数据库赋值
func (r *postRepository) Create(post *model.Post) error {
	query := `INSERT INTO posts (author_id, text, group_id, image, created_at)
              VALUES (?, ?, ?, ?, NOW())`
	result, err := r.db.Exec(query, post.AuthorID, post.Text, post.GroupID, post.ImagePath)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(id)
	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID))
	return nil
}

// GetByID 通过ID获取帖子，不存在时返回 (nil, nil)
func (r *postRepository) GetByID(id int) (*model.Post, error) {
	row := r.db.QueryRow(selectPosts+` WHERE p.id = ?`, id)
	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

// Update 更新帖子的文本、分组和图片，作者和发布时间不变
func (r *postRepository) Update(post *model.Post) error {
	query := `UPDATE posts SET text = ?, group_id = ?, image = ? WHERE id = ?`
	_, err := r.db.Exec(query, post.Text, post.GroupID, post.ImagePath, post.ID)
	if err != nil {
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.Int("post_id", post.ID))
		return err
	}
	return nil
}

// Delete 删除帖子。关联评论不删除，评论的帖子引用置空
func (r *postRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE comments SET post_id = NULL WHERE post_id = ?`, id); err != nil {
		util.Logger.Error("置空评论的帖子引用失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	util.Logger.Info("帖子删除成功", zap.Int("post_id", id))
	return nil
}

// ListAll 返回全部帖子
func (r *postRepository) ListAll() ([]*model.Post, error) {
	return r.queryPosts(selectPosts + orderPosts)
}

// ListByGroup 返回指定分组的帖子
func (r *postRepository) ListByGroup(groupID int) ([]*model.Post, error) {
	return r.queryPosts(selectPosts+` WHERE p.group_id = ?`+orderPosts, groupID)
}

// ListByAuthor 返回指定作者的帖子
func (r *postRepository) ListByAuthor(authorID int) ([]*model.Post, error) {
	return r.queryPosts(selectPosts+` WHERE p.author_id = ?`+orderPosts, authorID)
}

// ListByFollowed 返回用户关注的所有作者的帖子
func (r *postRepository) ListByFollowed(userID int) ([]*model.Post, error) {
	query := selectPosts + `
	JOIN follows f ON f.author_id = p.author_id
	WHERE f.user_id = ?` + orderPosts
	return r.queryPosts(query, userID)
}

// CountByAuthor 统计作者的帖子数
func (r *postRepository) CountByAuthor(authorID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE author_id = ?`, authorID).Scan(&count)
	return count, err
}

func (r *postRepository) queryPosts(query string, args ...interface{}) ([]*model.Post, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询帖子列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	var (
		post       model.Post
		author     model.User
		groupID    sql.NullInt64
		image      sql.NullString
		groupTitle sql.NullString
		groupSlug  sql.NullString
	)
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Text, &groupID, &image, &post.CreatedAt,
		&author.Username, &groupTitle, &groupSlug,
	)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		post.ImagePath = image.String
	}
	author.ID = post.AuthorID
	post.Author = &author
	if groupID.Valid {
		id := int(groupID.Int64)
		post.GroupID = &id
		post.Group = &model.Group{
			ID:    id,
			Title: groupTitle.String,
			Slug:  groupSlug.String,
		}
	}
	return &post, nil
}
