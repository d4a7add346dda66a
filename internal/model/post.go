package model

import "time"

// Post 帖子；作者创建后不可变，分组与图片可选
type Post struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"index:idx_post_pub_date;not null"`
	AuthorID string    `json:"-" gorm:"type:varchar(36);index:idx_post_author;not null"`
	Author   User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID  *string   `json:"-" gorm:"type:varchar(36);index:idx_post_group"`
	Group    *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	// Image 上传文件的存储路径，文件本身由外部存储负责
	Image string `json:"image,omitempty" gorm:"type:varchar(255)"`
}

func (Post) TableName() string { return "posts" }

func (p Post) String() string { return p.Text }

// InGroup 报告帖子是否属于指定分组
func (p Post) InGroup(groupID string) bool {
	return p.GroupID != nil && *p.GroupID == groupID
}
