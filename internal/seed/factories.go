// Package seed populates the platform's stores with generated development
// data.
package seed

import (
	"time"

	"newwek/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// Factory builds realistic model values. All generated values satisfy the
// write-path validation rules, so seeded rows look like rows the API could
// have produced.
type Factory struct {
	now func() time.Time
}

func NewFactory(now func() time.Time) *Factory {
	if now == nil {
		now = time.Now
	}
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{now: now}
}

// BuildUser returns an unsaved user with a bcrypt-hashed password.
func (f *Factory) BuildUser(password string, overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: string(hashed),
	}
	for _, override := range overrides {
		override(user)
	}
	return user, nil
}

// BuildPost returns an unsaved post created at a random moment in the last
// 30 days.
func (f *Factory) BuildPost(author string, overrides ...func(*models.Post)) *models.Post {
	createdAgo := time.Duration(gofakeit.Number(1, 30*24)) * time.Hour
	post := models.NewPost(
		gofakeit.Sentence(5),
		gofakeit.Paragraph(2, 4, 8, "\n"),
		author,
		f.now().Add(-createdAgo),
	)
	for _, override := range overrides {
		override(post)
	}
	return post
}

// BuildComment returns an unsaved comment on the given post, created after
// the post itself.
func (f *Factory) BuildComment(post *models.Post, username string, overrides ...func(*models.Comment)) *models.Comment {
	ageMinutes := int(f.now().Sub(post.CreatedTime).Minutes())
	if ageMinutes < 1 {
		ageMinutes = 1
	}
	offset := time.Duration(gofakeit.Number(1, ageMinutes)) * time.Minute

	content := gofakeit.Sentence(gofakeit.Number(3, 12))
	if len(content) > 255 {
		content = content[:255]
	}

	comment := models.NewComment(post.ID, username, content, post.CreatedTime.Add(offset))
	for _, override := range overrides {
		override(comment)
	}
	return comment
}
