package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dreamware/postboard/internal/lifecycle"
	"github.com/dreamware/postboard/internal/model"
	"github.com/dreamware/postboard/internal/monitor"
	"github.com/dreamware/postboard/internal/posts"
	"github.com/dreamware/postboard/internal/users"
	"github.com/dreamware/postboard/internal/view"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	textHeader(w)
	if err := view.PostsList(w, s.posts.Snapshot(), s.users.Snapshot(), s.now()); err != nil {
		s.logger.Error("failed to render posts", "err", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	report := struct {
		Posts  lifecycle.Status `json:"posts"`
		Users  lifecycle.Status `json:"users"`
		Remote *monitor.Health  `json:"remote,omitempty"`
	}{
		Posts: s.posts.Snapshot().Status,
		Users: s.users.Snapshot().Status,
	}
	if s.remote != nil {
		h := s.remote.Health()
		report.Remote = &h
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, posts.SelectAllPosts(s.posts.Snapshot()))
}

func (s *Server) handleFetchPosts(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.FetchPosts(r.Context()); err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, posts.SelectAllPosts(s.posts.Snapshot()))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	ps := s.posts.Snapshot()
	p, ok := posts.SelectPostByID(ps, id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Post not found!")
		return
	}
	if wantsText(r) {
		textHeader(w)
		if err := view.SinglePost(w, p, s.users.Snapshot(), s.now()); err != nil {
			s.logger.Error("failed to render post", "id", id, "err", err)
		}
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAddPost(w http.ResponseWriter, r *http.Request) {
	var draft model.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	p, err := s.posts.AddNewPost(r.Context(), draft)
	switch {
	case errors.Is(err, model.ErrInvalidDraft):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	if _, ok := posts.SelectPostByID(s.posts.Snapshot(), id); !ok {
		s.writeError(w, http.StatusNotFound, "Post not found!")
		return
	}
	var p model.Post
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	p.ID = id

	stored, err := s.posts.UpdatePost(r.Context(), p)
	switch {
	case errors.Is(err, posts.ErrNotApplied):
		s.writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeJSON(w, http.StatusOK, stored)
	}
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	p, ok := posts.SelectPostByID(s.posts.Snapshot(), id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Post not found!")
		return
	}
	if err := s.posts.DeletePost(r.Context(), p); err != nil {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReaction(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	kind, err := model.ParseReactionKind(mux.Vars(r)["kind"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, ok := s.posts.ReactionIncrement(id, kind)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Post not found!")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	us := s.users.Snapshot()
	if wantsText(r) {
		textHeader(w)
		if err := view.UsersList(w, us); err != nil {
			s.logger.Error("failed to render users", "err", err)
		}
		return
	}
	s.writeJSON(w, http.StatusOK, users.SelectAllUsers(us))
}

func (s *Server) handleFetchUsers(w http.ResponseWriter, r *http.Request) {
	if err := s.users.FetchUsers(r.Context()); err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, users.SelectAllUsers(s.users.Snapshot()))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	u, ok := users.SelectUserByID(s.users.Snapshot(), id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("user %d not found", id))
		return
	}
	if wantsText(r) {
		textHeader(w)
		if err := view.UserPage(w, u, s.posts.Snapshot()); err != nil {
			s.logger.Error("failed to render user", "id", id, "err", err)
		}
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.writeJSON(w, http.StatusOK, posts.SelectPostsByUser(s.posts.Snapshot(), id))
}
