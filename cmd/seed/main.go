// Command seed populates the development databases with generated users,
// posts and comments. The seeded comment counters match the comment rows,
// so the platform starts without counter drift.
package main

import (
	"flag"
	"log"

	"newwek/internal/config"
	"newwek/internal/database"
	"newwek/internal/models"
	"newwek/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.NumUsers, "users", opts.NumUsers, "number of users to create")
	flag.IntVar(&opts.NumPosts, "posts", opts.NumPosts, "number of posts to create")
	flag.IntVar(&opts.MaxCommentsPerPost, "max-comments", opts.MaxCommentsPerPost, "maximum comments per post")
	flag.BoolVar(&opts.ShouldClean, "clean", false, "delete existing rows first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg, cfg.DBName,
		&models.Post{}, &models.Comment{}, &models.User{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	stores := seed.Stores{Blog: db, Comment: db, Auth: db}
	if err := seed.Seed(stores, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
