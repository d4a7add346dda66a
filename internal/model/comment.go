package model

import "time"

// Comment 评论，挂在帖子下，不支持编辑
type Comment struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID   string    `json:"post_id" gorm:"type:varchar(36);index:idx_comment_post;not null"`
	Post     *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	AuthorID string    `json:"-" gorm:"type:varchar(36);index:idx_comment_author;not null"`
	Author   User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Created  time.Time `json:"created" gorm:"index:idx_comment_created;not null"`
}

func (Comment) TableName() string { return "comments" }
