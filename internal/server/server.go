// Package server is the HTTP ingress and push channel for board snapshots.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/boardlens/boardlens/internal/analytics"
	"github.com/boardlens/boardlens/internal/dict"
	"github.com/boardlens/boardlens/internal/game"
	"github.com/boardlens/boardlens/internal/journal"
	"github.com/boardlens/boardlens/internal/letters"
	"github.com/boardlens/boardlens/internal/logger"
)

const moveLogLimit = 100

type Server struct {
	mux     *http.ServeMux
	hub     *Hub
	worker  *Worker
	defs    *dict.Definitions
	agg     *analytics.Aggregator
	log     *journal.Log
	archive *journal.Archive
	limiter *ipLimiter
}

func New(worker *Worker, hub *Hub, defs *dict.Definitions, agg *analytics.Aggregator, log *journal.Log) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		hub:     hub,
		worker:  worker,
		defs:    defs,
		agg:     agg,
		log:     log,
		limiter: newIPLimiter(),
	}
	s.mux.HandleFunc("POST /update-data", s.handleUpdateData)
	s.mux.HandleFunc("POST /update-image", s.handleUpdateImage)
	s.mux.HandleFunc("GET /definition/{word}", s.handleDefinition)
	s.mux.HandleFunc("GET /analytics", s.handleAnalytics)
	s.mux.HandleFunc("GET /analytics/player/{id}", s.handleAnalyticsPlayer)
	s.mux.HandleFunc("GET /analytics/move-log", s.handleMoveLog)
	s.mux.HandleFunc("GET /receive-data", s.handleReceiveData)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	worker.SetPublish(s.publishResult)
	return s
}

// publishResult fans one processed snapshot out to the observers. It runs on
// the worker goroutine with a server-lifetime context: the posting client may
// be long gone, and that must never disturb the other observers. Move events
// for a snapshot always follow its data message.
func (s *Server) publishResult(res *game.Result) int {
	ctx := context.Background()
	n := s.hub.Broadcast(ctx, Message{Type: "data", Data: game.BuildPayload(res, nil)})
	if len(res.Events) > 0 {
		s.hub.Broadcast(ctx, Message{
			Type: "move-log",
			Data: map[string]any{"entries": res.Events},
		})
	}
	return n
}

// SetArchive attaches the SQLite event mirror used as the move-log fallback.
func (s *Server) SetArchive(a *journal.Archive) { s.archive = a }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleUpdateData(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(r.RemoteAddr) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "body read failed")
		return
	}

	// Partial or malformed payloads coerce to empty rather than rejecting;
	// the vision pipeline drops fields mid-game all the time.
	snap := game.ParseSnapshot(body)
	_, n, err := s.worker.Submit(snap)
	if err != nil {
		logger.Error("snapshot processing", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "broadcast": n})
}

func (s *Server) handleUpdateImage(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(r.RemoteAddr) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "body read failed")
		return
	}

	var b64 string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var meta struct {
			Data struct {
				Base64 string `json:"base64"`
			} `json:"data"`
			Base64 string `json:"base64"`
		}
		if err := json.Unmarshal(body, &meta); err == nil {
			b64 = meta.Data.Base64
			if b64 == "" {
				b64 = meta.Base64
			}
		}
	} else {
		b64 = base64.StdEncoding.EncodeToString(body)
	}

	data := map[string]any{}
	if b64 != "" {
		data["base64"] = b64
	}
	n := s.hub.Broadcast(context.Background(), Message{
		Type:      "image",
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
		Processed: b64 != "",
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "broadcast": n})
}

func (s *Server) handleDefinition(w http.ResponseWriter, r *http.Request) {
	word := letters.Normalize(r.PathValue("word"))
	def, ok := s.defs.Lookup(word)
	resp := map[string]any{"ok": true, "word": word, "definition": nil}
	if ok {
		resp["definition"] = def
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.agg.Snapshot())
}

func (s *Server) handleAnalyticsPlayer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.agg.Player(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown player")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleMoveLog(w http.ResponseWriter, r *http.Request) {
	events := s.log.Recent(moveLogLimit)
	if len(events) == 0 && s.archive != nil {
		archived, err := s.archive.Recent(moveLogLimit)
		if err != nil {
			logger.Error("move archive read", "err", err)
		} else {
			events = archived
		}
	}
	if events == nil {
		events = []journal.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"data": map[string]any{"events": events},
	})
}

func (s *Server) handleReceiveData(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		logger.Warn("websocket accept", "err", err)
		return
	}
	sub := s.hub.add(conn)
	logger.Debug("observer connected", "remote", r.RemoteAddr)

	// Observers only listen; the read loop just detects the close.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}
	s.hub.remove(sub)
	conn.Close(websocket.StatusNormalClosure, "")
	logger.Debug("observer disconnected", "remote", r.RemoteAddr)
}

// Helpers

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
