package feed

import (
	"context"

	"github.com/ButyrinIA/yatube/internal/models"
	"github.com/ButyrinIA/yatube/internal/storage"
)

// DefaultPerPage - размер страницы ленты по умолчанию
const DefaultPerPage = 10

type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeGroup
	ScopeAuthor
)

// Scope задает срез ленты: вся лента, лента группы или лента автора
type Scope struct {
	Kind     ScopeKind
	Slug     string
	Username string
}

func All() Scope { return Scope{Kind: ScopeAll} }

func Group(slug string) Scope { return Scope{Kind: ScopeGroup, Slug: slug} }

func Author(username string) Scope { return Scope{Kind: ScopeAuthor, Username: username} }

type Assembler struct {
	store   storage.Storage
	perPage int
}

func New(store storage.Storage, perPage int) *Assembler {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Assembler{store: store, perPage: perPage}
}

// Assemble собирает одну страницу ленты. Номер страницы вне диапазона
// приводится к границе: меньше 1 - первая страница, больше последней -
// последняя. Пустая лента - одна пустая страница.
func (a *Assembler) Assemble(ctx context.Context, scope Scope, pageNumber int) (*models.Page, error) {
	filter := scopeFilter(scope)

	total, err := a.store.CountPosts(ctx, filter)
	if err != nil {
		return nil, err
	}

	pageCount := (total + a.perPage - 1) / a.perPage
	if pageCount < 1 {
		pageCount = 1
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > pageCount {
		pageNumber = pageCount
	}

	posts, err := a.store.ListPosts(ctx, filter, a.perPage, (pageNumber-1)*a.perPage)
	if err != nil {
		return nil, err
	}

	return &models.Page{
		Posts:      posts,
		Number:     pageNumber,
		PageCount:  pageCount,
		TotalCount: total,
		PerPage:    a.perPage,
	}, nil
}

func scopeFilter(scope Scope) storage.PostFilter {
	switch scope.Kind {
	case ScopeGroup:
		return storage.PostFilter{GroupSlug: scope.Slug}
	case ScopeAuthor:
		return storage.PostFilter{AuthorUsername: scope.Username}
	default:
		return storage.PostFilter{}
	}
}
