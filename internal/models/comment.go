package models

import (
	"strings"
	"time"
)

// EditWindow is how long a comment stays editable after creation.
const EditWindow = 60 * time.Minute

// Comment represents a comment owned by the comment service's store.
// BlogPostID is a soft reference into the blog service's store; nothing
// enforces it beyond the counter-guard call made on creation.
type Comment struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	BlogPostID         uint       `gorm:"not null;index;<-:create" json:"blog_post_id"`
	Username           string     `gorm:"not null;<-:create" json:"username"`
	Content            string     `gorm:"not null" json:"content"`
	CreatedTime        time.Time  `gorm:"not null;<-:create" json:"created_time"`
	EnableToUpdateTill time.Time  `gorm:"not null;<-:create" json:"enable_to_update_till"`
	ModifiedTime       *time.Time `json:"modified_time"`
}

// NewComment builds a comment with its edit window anchored at now.
func NewComment(blogPostID uint, username, content string, now time.Time) *Comment {
	return &Comment{
		BlogPostID:         blogPostID,
		Username:           username,
		Content:            content,
		CreatedTime:        now,
		EnableToUpdateTill: now.Add(EditWindow),
	}
}

// CanEdit reports whether user may still edit the comment at instant now.
// Ownership and window expiry are evaluated together; callers surface a single
// forbidden outcome for either.
func (c *Comment) CanEdit(user string, now time.Time) bool {
	return user == c.Username && !now.After(c.EnableToUpdateTill)
}

// ApplyEdit replaces the content and stamps the modification time. The edit
// window itself never moves.
func (c *Comment) ApplyEdit(content string, now time.Time) {
	c.Content = content
	c.ModifiedTime = &now
}

// ValidateCommentContent checks the 2-255 non-blank content constraint shared
// by comment create and update.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError("Content comment could not be blank")
	}
	if l := len(content); l < 2 || l > 255 {
		return NewValidationError("Content comment could not be less than 2 or bigger than 255 symbols")
	}
	return nil
}
