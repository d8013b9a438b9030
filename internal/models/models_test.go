package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostPreview(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"short text stays whole", "Короткий", "Короткий"},
		{"long text truncates to 15 runes", "Тестовый пост_1234567890", "Тестовый пост_1"},
		{"cyrillic counts runes not bytes", "абвгдеёжзийклмнопрст", "абвгдеёжзийклмн"},
		{"empty text", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			post := &Post{Text: tc.text}
			assert.Equal(t, tc.want, post.Preview(), "Некорректная короткая форма поста")
			assert.LessOrEqual(t, len([]rune(post.Preview())), PreviewLength)
		})
	}
}

func TestPageNavigation(t *testing.T) {
	page := &Page{Number: 1, PageCount: 2}
	assert.True(t, page.HasNext())
	assert.False(t, page.HasPrev())
	assert.Equal(t, 2, page.Next())

	page = &Page{Number: 2, PageCount: 2}
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrev())
	assert.Equal(t, 1, page.Prev())
}
