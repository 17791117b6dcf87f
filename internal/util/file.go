package util

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateObjectKey 生成按日期分目录的唯一对象名
func GenerateObjectKey(prefix, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(prefix, time.Now().UTC().Format("2006/01/02"), uuid.NewString()+ext)
}

// ExtensionForMime 根据图片 MIME 类型返回扩展名
func ExtensionForMime(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
