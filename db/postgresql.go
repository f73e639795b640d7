package db

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"simple-blog/models"
)

// PostgresStore keeps posts in the posts table created by the goose migrations.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres opens the connection pool and checks the server is reachable.
func OpenPostgres(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, errors.New("failed to open database connection: " + err.Error())
	}

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.New("failed to ping database: " + err.Error())
	}

	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(10)

	log.Println("Database connection initialized successfully.")
	return conn, nil
}

func NewPostgresStore(conn *sql.DB) *PostgresStore {
	return &PostgresStore{db: conn}
}

func (s *PostgresStore) Create(ctx context.Context, title, content string, imagePath *string) (*models.Post, error) {
	post := models.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		ImagePath: imagePath,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, "INSERT INTO posts (id, title, content, image_path, created_at) VALUES ($1, $2, $3, $4, $5)",
		post.ID, post.Title, post.Content, toNullString(post.ImagePath), post.CreatedAt)
	if err != nil {
		return nil, storageError("create", errors.Wrap(err, "insert post"))
	}

	return &post, nil
}

func (s *PostgresStore) ListAllDescending(ctx context.Context) (posts []models.Post, err error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, content, image_path, created_at FROM posts ORDER BY seq DESC")
	if err != nil {
		return nil, storageError("list", errors.Wrap(err, "query posts"))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = storageError("list", errors.Wrap(closeErr, "close rows"))
		}
	}()

	posts = make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		var imagePath sql.NullString
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &imagePath, &post.CreatedAt); err != nil {
			return nil, storageError("list", errors.Wrap(err, "scan post"))
		}
		if imagePath.Valid {
			path := imagePath.String
			post.ImagePath = &path
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("list", errors.Wrap(err, "iterate posts"))
	}

	return posts, nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
