package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ButyrinIA/yatube/internal/feed"
	"github.com/ButyrinIA/yatube/internal/models"
	"github.com/ButyrinIA/yatube/internal/storage"
)

// Типизированные контексты страниц: каждая семья маршрутов отдает
// шаблону ровно те поля, которые обещает ее контракт.

type feedView struct {
	Page   *models.Page
	Group  *models.Group
	Author *models.User
	User   *models.User
}

type postView struct {
	Post *models.Post
	User *models.User
}

type formView struct {
	Form   *PostForm
	Post   *models.Post
	Groups []models.Group
	User   *models.User
}

type staticView struct {
	User *models.User
}

// pageNumber читает ?page=N, по умолчанию первая страница
func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return n
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.feed.Assemble(r.Context(), feed.All(), pageNumber(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, "index.html", feedView{Page: page, User: s.currentUser(r)})
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	// несуществующая группа отдает пустую ленту, а не 404
	group, err := s.storage.GetGroupBySlug(r.Context(), slug)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.serverError(w, err)
		return
	}

	page, err := s.feed.Assemble(r.Context(), feed.Group(slug), pageNumber(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, "group_list.html", feedView{Page: page, Group: group, User: s.currentUser(r)})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	author, err := s.storage.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.serverError(w, err)
		return
	}

	page, err := s.feed.Assemble(r.Context(), feed.Author(username), pageNumber(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, "profile.html", feedView{Page: page, Author: author, User: s.currentUser(r)})
}

func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	post, ok := s.lookupPost(w, r)
	if !ok {
		return
	}
	s.render(w, "post_detail.html", postView{Post: post, User: s.currentUser(r)})
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)

	groups, err := s.storage.ListGroups(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	if r.Method != http.MethodPost {
		s.render(w, "create_post.html", formView{Form: NewPostForm(), Groups: groups, User: user})
		return
	}

	form := ParsePostForm(r)
	if !form.Validate(groups) {
		s.render(w, "create_post.html", formView{Form: form, Groups: groups, User: user})
		return
	}

	post := &models.Post{
		Text:     form.Text,
		PubDate:  time.Now(),
		AuthorID: user.ID,
		GroupID:  form.GroupID,
	}
	if err := s.storage.CreatePost(r.Context(), post); err != nil {
		s.serverError(w, err)
		return
	}

	log.Printf("Пользователь %s создал пост %d (%s)", user.Username, post.ID, post.Preview())
	http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusFound)
}

func (s *Server) handlePostEdit(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)

	post, ok := s.lookupPost(w, r)
	if !ok {
		return
	}

	// не автор молча отправляется смотреть пост
	if post.AuthorID != user.ID {
		http.Redirect(w, r, postDetailPath(post.ID), http.StatusFound)
		return
	}

	groups, err := s.storage.ListGroups(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	if r.Method != http.MethodPost {
		form := NewPostForm()
		form.Text = post.Text
		form.GroupID = post.GroupID
		s.render(w, "create_post.html", formView{Form: form, Post: post, Groups: groups, User: user})
		return
	}

	form := ParsePostForm(r)
	if !form.Validate(groups) {
		s.render(w, "create_post.html", formView{Form: form, Post: post, Groups: groups, User: user})
		return
	}

	post.Text = form.Text
	post.GroupID = form.GroupID
	if err := s.storage.UpdatePost(r.Context(), post); err != nil {
		s.serverError(w, err)
		return
	}

	http.Redirect(w, r, postDetailPath(post.ID), http.StatusFound)
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)

	post, ok := s.lookupPost(w, r)
	if !ok {
		return
	}

	if post.AuthorID != user.ID {
		http.Redirect(w, r, postDetailPath(post.ID), http.StatusFound)
		return
	}

	if err := s.storage.DeletePost(r.Context(), post.ID); err != nil {
		s.serverError(w, err)
		return
	}

	log.Printf("Пользователь %s удалил пост %d", user.Username, post.ID)
	http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusFound)
}

func (s *Server) handleAboutAuthor(w http.ResponseWriter, r *http.Request) {
	s.render(w, "author.html", staticView{User: s.currentUser(r)})
}

func (s *Server) handleAboutTech(w http.ResponseWriter, r *http.Request) {
	s.render(w, "tech.html", staticView{User: s.currentUser(r)})
}

// lookupPost достает пост из пути запроса, отвечая 404 на плохой id
// и на отсутствующий пост
func (s *Server) lookupPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	post, err := s.storage.GetPost(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.serverError(w, err)
		return nil, false
	}
	return post, true
}

func postDetailPath(id int64) string {
	return fmt.Sprintf("/posts/%d/", id)
}
