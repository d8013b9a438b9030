package server

import (
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/ButyrinIA/yatube/internal/auth"
	"github.com/ButyrinIA/yatube/internal/config"
	"github.com/ButyrinIA/yatube/internal/feed"
	"github.com/ButyrinIA/yatube/internal/models"
	"github.com/ButyrinIA/yatube/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

const loginPath = "/auth/login/"

type contextKey string

const userContextKey contextKey = "user"

type Server struct {
	cfg     *config.Config
	storage storage.Storage
	feed    *feed.Assembler
	tokens  *auth.Manager
	tmpl    *template.Template
	handler http.Handler
}

func New(cfg *config.Config, store storage.Storage) *Server {
	s := &Server{
		cfg:     cfg,
		storage: store,
		feed:    feed.New(store, cfg.Posts.PerPage),
		tokens:  auth.New(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL)),
		tmpl:    template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
	s.handler = s.routes()
	return s
}

// routes строит таблицу маршрутов один раз при создании сервера
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /group/{slug}/{$}", s.handleGroup)
	mux.HandleFunc("GET /profile/{username}/{$}", s.handleProfile)
	mux.HandleFunc("GET /posts/{id}/{$}", s.handlePostDetail)

	mux.HandleFunc("/create/{$}", s.requireAuth(s.handlePostCreate))
	mux.HandleFunc("/posts/{id}/edit/{$}", s.requireAuth(s.handlePostEdit))
	mux.HandleFunc("POST /posts/{id}/delete/{$}", s.requireAuth(s.handlePostDelete))

	mux.HandleFunc("/auth/signup/{$}", s.handleSignup)
	mux.HandleFunc(loginPath+"{$}", s.handleLogin)
	mux.HandleFunc("GET /auth/logout/{$}", s.handleLogout)

	mux.HandleFunc("GET /about/author/{$}", s.handleAboutAuthor)
	mux.HandleFunc("GET /about/tech/{$}", s.handleAboutTech)

	return mux
}

func (s *Server) Run() error {
	log.Printf("Сервер слушает порт %s", s.cfg.Server.Port)
	return http.ListenAndServe(":"+s.cfg.Server.Port, s.handler)
}

// requireAuth пропускает только авторизованных, остальных отправляет
// на страницу входа с параметром next для возврата
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, loginPath+"?next="+r.URL.Path, http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// currentUser возвращает пользователя текущего запроса или nil
func (s *Server) currentUser(r *http.Request) *models.User {
	if user, ok := r.Context().Value(userContextKey).(*models.User); ok {
		return user
	}

	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return nil
	}
	username, err := s.tokens.ValidateToken(cookie.Value)
	if err != nil {
		return nil
	}
	user, err := s.storage.GetUserByUsername(r.Context(), username)
	if err != nil {
		return nil
	}
	return user
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Ошибка рендеринга шаблона %s: %v", name, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	log.Printf("Внутренняя ошибка: %v", err)
	http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
}
