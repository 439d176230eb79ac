package storage

import "mime/multipart"

// FileStorage 抽象上传文件的存放位置。路径按实体类型命名空间
// 组织，例如帖子图片存放在 posts/ 下
type FileStorage interface {
	// UploadFile 保存文件并返回可存入数据库的相对路径或URL
	UploadFile(file *multipart.FileHeader, path string) (string, error)
	// DeleteFile 删除文件，文件不存在时静默返回
	DeleteFile(path string) error
}
