package domain

import "time"

// News represents a user-submitted article.
type News struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Title     string        `gorm:"type:text;not null" json:"title"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Comments  []NewsComment `gorm:"foreignKey:NewsID" json:"comments,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName returns the database table name for News.
func (News) TableName() string {
	return "news"
}

// NewsComment represents a comment attached to an article.
type NewsComment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	NewsID      uint      `gorm:"not null;index:idx_news_comments_news" json:"news_id"`
	Nickname    string    `gorm:"type:text" json:"nickname,omitempty"`
	CommentText string    `gorm:"type:text;not null" json:"comment_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for NewsComment.
func (NewsComment) TableName() string {
	return "news_comments"
}

// DisplayText renders a comment the way clients show it, with the
// nickname prefixed when one was supplied.
func (c NewsComment) DisplayText() string {
	if c.Nickname == "" {
		return c.CommentText
	}
	return c.Nickname + ": " + c.CommentText
}
