package constants

import "time"

const (
	// ServiceName 服务名，用于日志与链路追踪
	ServiceName = "cv-analysis-go"
	// APIVersion 健康检查中返回的版本号
	APIVersion = "1.0.0"

	// ExtractionMethodRegex 仅使用规则抽取
	ExtractionMethodRegex = "regex"
	// ExtractionMethodAIEnhanced 规则抽取后经过AI补全
	ExtractionMethodAIEnhanced = "ai_enhanced"

	// MinTextRunes 抽取文本少于该非空白字符数时视为无法解析
	MinTextRunes = 20

	// AITextLimit 发送给AI的简历文本上限（字符）
	AITextLimit = 3000
	// AIJDTextLimit 发送给AI的岗位描述上限（字符）
	AIJDTextLimit = 2000

	// DefaultCacheCapacity 进程内解析结果缓存的默认容量
	DefaultCacheCapacity = 512
	// DefaultCacheTTL 解析结果缓存的默认有效期
	DefaultCacheTTL = 2 * time.Hour
	// CachePurgeInterval 后台清理过期缓存的间隔
	CachePurgeInterval = 10 * time.Minute

	// SideEffectTimeout 上传后归档、入库、发消息的总超时
	SideEffectTimeout = 10 * time.Second
)

// 上传文件类型
const (
	FileTypePDF  = "pdf"
	FileTypeDOCX = "docx"
)
