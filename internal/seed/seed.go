package seed

import (
	"fmt"
	"log/slog"

	"newwek/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers           int
	NumPosts           int
	MaxCommentsPerPost int
	Password           string
	ShouldClean        bool
}

// DefaultOptions is a small but representative data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:           10,
		NumPosts:           25,
		MaxCommentsPerPost: 8,
		Password:           "password123",
	}
}

// Stores holds the database handles of the services being seeded. The
// three services can share one database in development, in which case all
// fields point at the same handle.
type Stores struct {
	Blog    *gorm.DB
	Comment *gorm.DB
	Auth    *gorm.DB
}

// Seed fills the stores with users, posts and comments. Every post's
// comments_counter matches its actual comment rows, so the seeded data
// starts drift-free.
func Seed(stores Stores, opts Options) error {
	if opts.ShouldClean {
		if err := clearData(stores); err != nil {
			return fmt.Errorf("clearing data: %w", err)
		}
	}

	factory := NewFactory(nil)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.BuildUser(opts.Password)
		if err != nil {
			return fmt.Errorf("building user: %w", err)
		}
		if err := stores.Auth.Create(user).Error; err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}

	totalComments := 0
	for i := 0; i < opts.NumPosts; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]
		post := factory.BuildPost(author.Username)
		if err := stores.Blog.Create(post).Error; err != nil {
			return fmt.Errorf("creating post: %w", err)
		}

		numComments := gofakeit.Number(0, opts.MaxCommentsPerPost)
		for j := 0; j < numComments; j++ {
			commenter := users[gofakeit.Number(0, len(users)-1)]
			comment := factory.BuildComment(post, commenter.Username)
			if err := stores.Comment.Create(comment).Error; err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
		}

		if numComments > 0 {
			err := stores.Blog.Model(post).
				UpdateColumn("comments_counter", int64(numComments)).Error
			if err != nil {
				return fmt.Errorf("setting comments counter: %w", err)
			}
		}
		totalComments += numComments
	}

	slog.Info("seeding complete",
		"users", len(users), "posts", opts.NumPosts, "comments", totalComments)
	return nil
}

func clearData(stores Stores) error {
	if err := stores.Comment.Where("1 = 1").Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := stores.Blog.Where("1 = 1").Delete(&models.Post{}).Error; err != nil {
		return err
	}
	return stores.Auth.Where("1 = 1").Delete(&models.User{}).Error
}
