package server

import (
	"net/http"

	"github.com/dreamware/postboard/internal/posts"
)

// handleWatch upgrades to a websocket and pushes the posts list on connect
// and after every change to the posts store. Only the latest pending state
// is kept for a slow client.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade", "err", err)
		return
	}
	defer conn.Close()

	updates := make(chan posts.State, 1)
	unsubscribe := s.posts.Subscribe(func(st posts.State) {
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- st:
		default:
		}
	})
	defer unsubscribe()

	// The read side only exists to notice the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(posts.SelectAllPosts(s.posts.Snapshot())); err != nil {
		s.logger.Warn("watch write failed", "err", err)
		return
	}
	s.logger.Info("watcher connected", "remote", r.RemoteAddr)

	for {
		select {
		case st := <-updates:
			if err := conn.WriteJSON(posts.SelectAllPosts(st)); err != nil {
				s.logger.Warn("watch write failed", "err", err)
				return
			}
		case <-gone:
			s.logger.Info("watcher disconnected", "remote", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		}
	}
}
