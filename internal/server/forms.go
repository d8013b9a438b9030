package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ButyrinIA/yatube/internal/models"
)

// PostForm - форма создания и редактирования поста
type PostForm struct {
	Text    string
	GroupID *int64
	Errors  map[string]string
}

func NewPostForm() *PostForm {
	return &PostForm{Errors: make(map[string]string)}
}

// ParsePostForm читает поля text и group из тела запроса
func ParsePostForm(r *http.Request) *PostForm {
	form := NewPostForm()
	form.Text = strings.TrimSpace(r.FormValue("text"))

	if raw := r.FormValue("group"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			form.Errors["group"] = "Некорректная группа"
		} else {
			form.GroupID = &id
		}
	}
	return form
}

// Validate проверяет ограничения полей: текст обязателен, группа,
// если указана, должна существовать. Возвращает true при успехе.
func (f *PostForm) Validate(groups []models.Group) bool {
	if f.Text == "" {
		f.Errors["text"] = "Введите текст поста"
	}
	if f.GroupID != nil && f.Errors["group"] == "" {
		found := false
		for _, g := range groups {
			if g.ID == *f.GroupID {
				found = true
				break
			}
		}
		if !found {
			f.Errors["group"] = "Такой группы не существует"
		}
	}
	return len(f.Errors) == 0
}

// GroupValue отдает выбранную группу как строку для шаблона
func (f *PostForm) GroupValue() string {
	if f.GroupID == nil {
		return ""
	}
	return strconv.FormatInt(*f.GroupID, 10)
}

// AuthForm - форма регистрации и входа
type AuthForm struct {
	Username string
	Password string
	Errors   map[string]string
}

func ParseAuthForm(r *http.Request) *AuthForm {
	return &AuthForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
		Errors:   make(map[string]string),
	}
}

func (f *AuthForm) Validate() bool {
	if f.Username == "" {
		f.Errors["username"] = "Введите имя пользователя"
	}
	if f.Password == "" {
		f.Errors["password"] = "Введите пароль"
	}
	return len(f.Errors) == 0
}
