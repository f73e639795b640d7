// Seed fills the configured store with fake posts for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"simple-blog/configs"
	"simple-blog/db"
)

func main() {
	var numPosts int
	var paragraphs int
	flag.IntVar(&numPosts, "posts", 20, "number of posts to create")
	flag.IntVar(&paragraphs, "paragraphs", 2, "paragraphs of content per post")
	flag.Parse()

	config, err := configs.LoadConfig(os.Getenv("BLOG_CONFIG"))
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	store, err := db.Open(config)
	if err != nil {
		log.Fatalf("Error opening %s store: %v", config.Store.Driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	defer func() {
		if err := store.Close(ctx); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}()

	faker := gofakeit.New(time.Now().UnixNano())
	start := time.Now()
	if err := seed(ctx, store, faker, numPosts, paragraphs); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("created %d posts in %s", numPosts, time.Since(start).Truncate(time.Millisecond))
}

// seed creates n fake posts without images.
func seed(ctx context.Context, store db.PostStore, faker *gofakeit.Faker, n, paragraphs int) error {
	for i := 0; i < n; i++ {
		title := faker.Sentence(faker.Number(3, 8))
		content := faker.Paragraph(paragraphs, 4, 12, "\n\n")
		if _, err := store.Create(ctx, title, content, nil); err != nil {
			return fmt.Errorf("after %d posts: %w", i, err)
		}
	}
	return nil
}
