package storage

import (
	"context"
	"errors"

	"github.com/ButyrinIA/yatube/internal/models"
)

var (
	// ErrNotFound возвращается, когда запись отсутствует в хранилище
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict возвращается при нарушении уникальности username или slug
	ErrConflict = errors.New("запись уже существует")
)

// PostFilter ограничивает выборку постов. Пустое значение поля - без фильтра.
type PostFilter struct {
	GroupSlug      string
	AuthorUsername string
}

type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)

	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id int64) error
	// ListPosts возвращает посты по фильтру, новые первыми,
	// со ссылками Author и Group, заполненными за один запрос
	ListPosts(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error)
	CountPosts(ctx context.Context, filter PostFilter) (int, error)

	Close() error
}
