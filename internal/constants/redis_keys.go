package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// ResumeModulePrefix 简历模块
	ResumeModulePrefix = "resume"
	// FileModulePrefix 文件模块
	FileModulePrefix = "file"

	// EntityParsed 解析结果实体
	EntityParsed = "parsed"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"

	// KeyParsedResume 简历解析结果缓存 (STRING, JSON)
	// 格式: app:resume:parsed:{md5}
	KeyParsedResume = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityParsed + ":%s"

	// KeyFileMD5Set 已解析文件的MD5集合 (SET)
	// 格式: app:file:dedup_set
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet
)
