package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ButyrinIA/yatube/internal/models"
	"github.com/ButyrinIA/yatube/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresStorage struct {
	conn *pgx.Conn
}

func New(dsn string) (*PostgresStorage, error) {
	conn, err := pgx.Connect(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	_, err = conn.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			joined TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS groups (
			id BIGSERIAL PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			text TEXT NOT NULL,
			pub_date TIMESTAMP NOT NULL,
			author_id BIGINT NOT NULL REFERENCES users(id),
			group_id BIGINT REFERENCES groups(id)
		);
		CREATE INDEX IF NOT EXISTS idx_posts_pub_date ON posts(pub_date DESC, id DESC);
		CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts(author_id);
		CREATE INDEX IF NOT EXISTS idx_posts_group_id ON posts(group_id);
	`)

	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &PostgresStorage{conn: conn}, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	err := s.conn.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, joined)
		VALUES ($1, $2, $3)
		RETURNING id`,
		user.Username, user.PasswordHash, user.Joined).Scan(&user.ID)
	return mapError(err)
}

func (s *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.conn.QueryRow(ctx, `
		SELECT id, username, password_hash, joined
		FROM users
		WHERE username=$1`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Joined)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return &u, err
}

func (s *PostgresStorage) CreateGroup(ctx context.Context, group *models.Group) error {
	err := s.conn.QueryRow(ctx, `
		INSERT INTO groups (slug, title, description)
		VALUES ($1, $2, $3)
		RETURNING id`,
		group.Slug, group.Title, group.Description).Scan(&group.ID)
	return mapError(err)
}

func (s *PostgresStorage) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var g models.Group
	err := s.conn.QueryRow(ctx, `
		SELECT id, slug, title, description
		FROM groups
		WHERE slug=$1`, slug).Scan(&g.ID, &g.Slug, &g.Title, &g.Description)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return &g, err
}

func (s *PostgresStorage) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, slug, title, description
		FROM groups
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Slug, &g.Title, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *PostgresStorage) CreatePost(ctx context.Context, post *models.Post) error {
	err := s.conn.QueryRow(ctx, `
		INSERT INTO posts (text, pub_date, author_id, group_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		post.Text, post.PubDate, post.AuthorID, post.GroupID).Scan(&post.ID)
	return mapError(err)
}

const postColumns = `
	p.id, p.text, p.pub_date, p.author_id, p.group_id,
	u.username, u.joined,
	g.slug, g.title, g.description`

func (s *PostgresStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id
		WHERE p.id=$1`, id)

	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	return post, err
}

func (s *PostgresStorage) UpdatePost(ctx context.Context, post *models.Post) error {
	// автор и дата публикации не обновляются
	tag, err := s.conn.Exec(ctx, `
		UPDATE posts
		SET text=$1, group_id=$2
		WHERE id=$3`,
		post.Text, post.GroupID, post.ID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) DeletePost(ctx context.Context, id int64) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) ListPosts(ctx context.Context, filter storage.PostFilter, limit, offset int) ([]models.Post, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id
		WHERE ($1 = '' OR g.slug = $1)
		AND ($2 = '' OR u.username = $2)
		ORDER BY p.pub_date DESC, p.id DESC
		LIMIT $3 OFFSET $4`,
		filter.GroupSlug, filter.AuthorUsername, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (s *PostgresStorage) CountPosts(ctx context.Context, filter storage.PostFilter) (int, error) {
	var count int
	err := s.conn.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id
		WHERE ($1 = '' OR g.slug = $1)
		AND ($2 = '' OR u.username = $2)`,
		filter.GroupSlug, filter.AuthorUsername).Scan(&count)
	return count, err
}

func (s *PostgresStorage) Close() error {
	return s.conn.Close(context.Background())
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var (
		p      models.Post
		author models.User
		slug   *string
		title  *string
		descr  *string
	)
	err := row.Scan(&p.ID, &p.Text, &p.PubDate, &p.AuthorID, &p.GroupID,
		&author.Username, &author.Joined, &slug, &title, &descr)
	if err != nil {
		return nil, err
	}

	author.ID = p.AuthorID
	p.Author = &author

	if p.GroupID != nil && slug != nil {
		p.Group = &models.Group{
			ID:          *p.GroupID,
			Slug:        *slug,
			Title:       *title,
			Description: *descr,
		}
	}
	return &p, nil
}

// mapError переводит нарушение уникальности в storage.ErrConflict
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.ErrConflict
	}
	return err
}
