package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeAnalysis 一次简历上传的解析记录，以 cache_key（文件 MD5）去重
type ResumeAnalysis struct {
	ID                 string         `gorm:"type:char(36);primaryKey"`
	CacheKey           string         `gorm:"type:char(32);not null;uniqueIndex:idx_ra_cache_key"`
	OriginalFilename   string         `gorm:"type:varchar(255)"`
	FileType           string         `gorm:"type:varchar(16)"`
	PageCount          int            `gorm:"type:int"`
	ExtractionMethod   string         `gorm:"type:varchar(32);index:idx_ra_extraction_method"`
	CandidateName      string         `gorm:"type:varchar(255)"`
	ExtractedInfoJSON  datatypes.JSON `gorm:"type:json"`
	SectionsJSON       datatypes.JSON `gorm:"type:json"`
	SkillsJSON         datatypes.JSON `gorm:"type:json"`
	OriginalObjectPath string         `gorm:"type:varchar(1024)"`
	ParsedTextPath     string         `gorm:"type:varchar(1024)"`
	UploadCount        int            `gorm:"type:int;default:1"`
	CreatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ResumeAnalysis) TableName() string {
	return "resume_analyses"
}
