package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ButyrinIA/yatube/internal/models"
	"github.com/ButyrinIA/yatube/internal/storage"
)

type MemoryStorage struct {
	users  map[int64]*models.User
	groups map[int64]*models.Group
	posts  map[int64]*models.Post

	nextUserID  int64
	nextGroupID int64
	nextPostID  int64

	mu sync.RWMutex
}

func New() *MemoryStorage {
	return &MemoryStorage{
		users:  make(map[int64]*models.User),
		groups: make(map[int64]*models.Group),
		posts:  make(map[int64]*models.Post),
	}
}

func (s *MemoryStorage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return storage.ErrConflict
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *MemoryStorage) CreateGroup(ctx context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.Slug == group.Slug {
			return storage.ErrConflict
		}
	}

	s.nextGroupID++
	group.ID = s.nextGroupID
	clone := *group
	s.groups[group.ID] = &clone
	return nil
}

func (s *MemoryStorage) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.groups {
		if g.Slug == slug {
			clone := *g
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *MemoryStorage) ListGroups(ctx context.Context) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

func (s *MemoryStorage) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return storage.ErrNotFound
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return storage.ErrNotFound
		}
	}

	s.nextPostID++
	post.ID = s.nextPostID
	clone := *post
	clone.Author = nil
	clone.Group = nil
	s.posts[post.ID] = &clone
	return nil
}

func (s *MemoryStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return s.resolve(post), nil
}

func (s *MemoryStorage) UpdatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.posts[post.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return storage.ErrNotFound
		}
	}

	// автор и дата публикации неизменяемы
	stored.Text = post.Text
	stored.GroupID = post.GroupID
	return nil
}

func (s *MemoryStorage) DeletePost(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryStorage) ListPosts(ctx context.Context, filter storage.PostFilter, limit, offset int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filtered(filter)

	// новые первыми, при равной дате - больший id первым
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PubDate.Equal(matched[j].PubDate) {
			return matched[i].PubDate.After(matched[j].PubDate)
		}
		return matched[i].ID > matched[j].ID
	})

	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	result := make([]models.Post, 0, end-offset)
	for _, p := range matched[offset:end] {
		result = append(result, *s.resolve(p))
	}
	return result, nil
}

func (s *MemoryStorage) CountPosts(ctx context.Context, filter storage.PostFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.filtered(filter)), nil
}

func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]*models.User)
	s.groups = make(map[int64]*models.Group)
	s.posts = make(map[int64]*models.Post)
	return nil
}

// filtered вызывается под уже взятой блокировкой
func (s *MemoryStorage) filtered(filter storage.PostFilter) []*models.Post {
	var matched []*models.Post
	for _, p := range s.posts {
		if filter.GroupSlug != "" {
			if p.GroupID == nil {
				continue
			}
			group, ok := s.groups[*p.GroupID]
			if !ok || group.Slug != filter.GroupSlug {
				continue
			}
		}
		if filter.AuthorUsername != "" {
			author, ok := s.users[p.AuthorID]
			if !ok || author.Username != filter.AuthorUsername {
				continue
			}
		}
		matched = append(matched, p)
	}
	return matched
}

// resolve возвращает копию поста со ссылками на автора и группу
func (s *MemoryStorage) resolve(p *models.Post) *models.Post {
	clone := *p
	if author, ok := s.users[p.AuthorID]; ok {
		a := *author
		clone.Author = &a
	}
	if p.GroupID != nil {
		if group, ok := s.groups[*p.GroupID]; ok {
			g := *group
			clone.Group = &g
		}
	}
	return &clone
}
