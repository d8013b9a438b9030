package models

import "time"

// PreviewLength - длина короткой формы поста для списков и логов
const PreviewLength = 15

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Joined       time.Time `json:"joined"`
}

type Group struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Post struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pubDate"`
	AuthorID int64     `json:"authorId"`
	GroupID  *int64    `json:"groupId"`

	// Author и Group заполняются хранилищем при чтении
	Author *User  `json:"author,omitempty"`
	Group  *Group `json:"group,omitempty"`
}

// Preview возвращает короткую форму поста: первые 15 символов текста
func (p *Post) Preview() string {
	runes := []rune(p.Text)
	if len(runes) <= PreviewLength {
		return p.Text
	}
	return string(runes[:PreviewLength])
}

// Page - одна страница ленты с метаданными пагинации
type Page struct {
	Posts      []Post `json:"posts"`
	Number     int    `json:"number"`
	PageCount  int    `json:"pageCount"`
	TotalCount int    `json:"totalCount"`
	PerPage    int    `json:"perPage"`
}

func (p *Page) HasNext() bool {
	return p.Number < p.PageCount
}

func (p *Page) HasPrev() bool {
	return p.Number > 1
}

// Next и Prev используются шаблонами для ссылок пагинации
func (p *Page) Next() int { return p.Number + 1 }
func (p *Page) Prev() int { return p.Number - 1 }
