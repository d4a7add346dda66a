package model

import "time"

// Follow 关注关系（User 关注 Author）
type Follow struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	UserID   string `gorm:"type:varchar(36);index:idx_follow_user;index:idx_follow_pair,unique;not null;check:chk_follow_not_self,user_id <> author_id"`
	AuthorID string `gorm:"type:varchar(36);index:idx_follow_author;index:idx_follow_pair,unique;not null"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (user_id, author_id)
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
