package util

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// GenerateUniqueFilename 生成唯一的文件名，保留原始扩展名
func GenerateUniqueFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	name := filepath.Base(originalFilename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	return name + "_" + timestamp + ext
}
