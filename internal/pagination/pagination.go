package pagination

import (
	"strconv"

	"social-blog-backend/internal/model"
)

// DefaultPageSize 列表页默认每页帖子数
const DefaultPageSize = 10

// Page 保存一页帖子及渲染分页控件所需的元数据
type Page struct {
	Posts      []*model.Post
	Number     int
	TotalPages int
	Total      int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// ParsePage 解析 page 查询参数。缺失或非数字时返回第一页
func ParsePage(raw string) int {
	number, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return number
}

// Paginate 对按时间倒序排列的帖子快照切出指定页。
// 页码从1开始，越界的页码收敛到最后一个有效页，不会报错。
// 该函数无副作用，相同输入总是产生相同输出
func Paginate(posts []*model.Post, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(posts)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if number < 1 || number > totalPages {
		number = totalPages
	}

	start := (number - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Posts:      posts[start:end],
		Number:     number,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
		PrevPage:   number - 1,
		NextPage:   number + 1,
	}
}
