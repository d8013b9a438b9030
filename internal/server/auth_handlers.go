package server

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ButyrinIA/yatube/internal/auth"
	"github.com/ButyrinIA/yatube/internal/models"
	"github.com/ButyrinIA/yatube/internal/storage"
)

type authView struct {
	Form *AuthForm
	Next string
	User *models.User
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, "signup.html", authView{Form: &AuthForm{Errors: map[string]string{}}, User: s.currentUser(r)})
		return
	}

	form := ParseAuthForm(r)
	if !form.Validate() {
		s.render(w, "signup.html", authView{Form: form})
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		s.serverError(w, err)
		return
	}

	user := &models.User{
		Username:     form.Username,
		PasswordHash: hash,
		Joined:       time.Now(),
	}
	err = s.storage.CreateUser(r.Context(), user)
	if errors.Is(err, storage.ErrConflict) {
		form.Errors["username"] = "Имя пользователя занято"
		s.render(w, "signup.html", authView{Form: form})
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}

	log.Printf("Зарегистрирован пользователь %s", user.Username)
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))

	if r.Method != http.MethodPost {
		s.render(w, "login.html", authView{Form: &AuthForm{Errors: map[string]string{}}, Next: next, User: s.currentUser(r)})
		return
	}

	form := ParseAuthForm(r)
	if form.Validate() {
		user, err := s.storage.GetUserByUsername(r.Context(), form.Username)
		if err != nil || !auth.CheckPassword(user.PasswordHash, form.Password) {
			form.Errors["password"] = "Неверное имя пользователя или пароль"
		} else {
			token, err := s.tokens.IssueToken(user.Username)
			if err != nil {
				s.serverError(w, err)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     auth.CookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
			})
			if next == "" {
				next = "/"
			}
			log.Printf("Пользователь %s вошел", user.Username)
			http.Redirect(w, r, next, http.StatusFound)
			return
		}
	}

	s.render(w, "login.html", authView{Form: form, Next: next})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// safeNext пропускает только локальные пути, чтобы next
// нельзя было использовать для внешнего редиректа
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
