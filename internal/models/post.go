// Package models contains data structures for the platform's domain entities.
package models

import (
	"strings"
	"time"
)

// Post represents a blog post owned by the blog service's store. The
// CommentsCounter column is denormalized: the true comment rows live in the
// comment service's store, and the counter is mutated only through the
// counter-guard path.
type Post struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Author          string     `gorm:"not null" json:"author"`
	CreatedTime     time.Time  `gorm:"not null;<-:create" json:"created_time"`
	ModifiedTime    *time.Time `json:"modified_time"`
	CommentsCounter int64      `gorm:"not null;default:0" json:"comments_counter"`
}

// NewPost builds a post the way the create path persists it: counter at zero,
// creation time fixed at now.
func NewPost(title, content, author string, now time.Time) *Post {
	return &Post{
		Title:           title,
		Content:         content,
		Author:          author,
		CreatedTime:     now,
		CommentsCounter: 0,
	}
}

// ApplyUpdate overwrites the mutable fields and stamps the modification time.
// Creation time and the comments counter are preserved.
func (p *Post) ApplyUpdate(title, content, author string, now time.Time) {
	p.Title = title
	p.Content = content
	p.Author = author
	p.ModifiedTime = &now
}

// ValidatePostInput checks the create/update payload constraints.
func ValidatePostInput(title, content, author string) error {
	if l := len(strings.TrimSpace(title)); l < 2 || l > 255 {
		return NewValidationError("Title could not be less than 2 or bigger than 255 symbols")
	}
	if l := len(strings.TrimSpace(content)); l < 10 || l > 10000 {
		return NewValidationError("Content could not be less than 10 or bigger than 10000 symbols")
	}
	if l := len(strings.TrimSpace(author)); l < 2 || l > 255 {
		return NewValidationError("Author could not be less than 2 or bigger than 255 symbols")
	}
	return nil
}
