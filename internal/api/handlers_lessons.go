package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dgallion1/lessonscript/internal/annotate"
	"github.com/dgallion1/lessonscript/internal/editor"
	"github.com/dgallion1/lessonscript/internal/lesson"
	"github.com/dgallion1/lessonscript/internal/script"
	"github.com/dgallion1/lessonscript/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
)

// lessonState is the snapshot every lesson endpoint responds with.
type lessonState struct {
	SessionID   string         `json:"session_id"`
	Text        string         `json:"text"`
	Explanation string         `json:"explanation"`
	Blocks      []lesson.Block `json:"blocks"`
	UndoDepth   int            `json:"undo_depth"`
	RedoDepth   int            `json:"redo_depth"`
}

func snapshotState(sess *session.Session) lessonState {
	var st lessonState
	sess.Do(func(c *editor.Controller) {
		st = lessonState{
			SessionID:   sess.ID,
			Text:        c.Text(),
			Explanation: c.Explanation(),
			Blocks:      c.Document().CopyBlocks(),
			UndoDepth:   c.UndoDepth(),
			RedoDepth:   c.RedoDepth(),
		}
	})
	return st
}

// session resolves the sessionID route param, writing a 404 on a miss.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	id := chi.URLParam(r, "sessionID")
	sess := s.sessions.Get(id)
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
	}
	return sess
}

// mutate runs one edit operation on the session, records its latency, pushes
// the resulting text to the host store and responds with the new state.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(c *editor.Controller)) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	start := time.Now()
	sess.Do(fn)
	s.sessions.Stats.Record(time.Since(start))
	s.pushHost(r, sess)
	writeJSON(w, http.StatusOK, snapshotState(sess))
}

func (s *Server) pushHost(r *http.Request, sess *session.Session) {
	if s.host == nil {
		return
	}
	if err := s.host.PutLesson(r.Context(), sess.ID, sess.Text()); err != nil {
		s.log.Warn("host sync failed", "session_id", sess.ID, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text           string `json:"text"`
		LessonID       string `json:"lesson_id"`
		Permissive     bool   `json:"permissive"`
		DefaultSpeaker string `json:"default_speaker"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	speaker := req.DefaultSpeaker
	if speaker == "" {
		speaker = s.cfg.DefaultSpeaker
	}

	// A lesson id without text loads the stored text from the host.
	if req.Text == "" && req.LessonID != "" {
		if s.host == nil {
			jsonError(w, "no host store configured", http.StatusBadRequest)
			return
		}
		text, ok, err := s.host.GetLesson(r.Context(), req.LessonID)
		if err != nil {
			jsonError(w, "load lesson: "+err.Error(), http.StatusBadGateway)
			return
		}
		if !ok {
			jsonError(w, "lesson not found in host store", http.StatusNotFound)
			return
		}
		req.Text = text
	}
	sess := session.New(req.Text, script.Options{
		Permissive:     req.Permissive,
		DefaultSpeaker: speaker,
	})
	s.sessions.Put(sess)
	st := snapshotState(sess)
	s.log.Info("session created", "session_id", sess.ID, "blocks", len(st.Blocks))
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, snapshotState(sess))
}

func (s *Server) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	s.sessions.Delete(sess.ID)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": sess.ID})
}

// handleReconcile merges an externally edited text snapshot into the live
// session.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	start := time.Now()
	var reconciled bool
	sess.Do(func(c *editor.Controller) {
		reconciled = c.Reconcile(req.Text)
	})
	s.sessions.Stats.Record(time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{
		"reconciled": reconciled,
		"state":      snapshotState(sess),
	})
}

// handleExplanation renders the lesson's explanation tail as HTML.
func (s *Server) handleExplanation(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var markdown string
	sess.Do(func(c *editor.Controller) {
		markdown = c.Explanation()
	})
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		jsonError(w, "render explanation: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"markdown": markdown,
		"html":     buf.String(),
	})
}

func (s *Server) handleSetSpeaker(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Speaker string `json:"speaker"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	sess.Do(func(c *editor.Controller) {
		c.SetSpeaker(req.Speaker)
	})
	writeJSON(w, http.StatusOK, map[string]string{"speaker": req.Speaker})
}

func (s *Server) handleInsertBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AfterIndex int          `json:"after_index"`
		Block      lesson.Block `json:"block"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Block.Kind == "" {
		req.Block.Kind = lesson.KindMessage
	}
	s.mutate(w, r, func(c *editor.Controller) {
		c.InsertAt(req.AfterIndex, req.Block)
	})
}

func (s *Server) handleEditBlock(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")
	var req struct {
		Content      *string         `json:"content"`
		CalloutTitle *string         `json:"callout_title"`
		CalloutIcon  *string         `json:"callout_icon"`
		Payload      json.RawMessage `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	patch := editor.Patch{
		Content:      req.Content,
		CalloutTitle: req.CalloutTitle,
		CalloutIcon:  req.CalloutIcon,
	}
	if req.Payload != nil {
		patch.PayloadSet = true
		var payload any
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			jsonError(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		patch.Payload = payload
	}
	s.mutate(w, r, func(c *editor.Controller) {
		c.EditBlock(blockID, patch)
	})
}

func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")
	s.mutate(w, r, func(c *editor.Controller) {
		c.DeleteBlock(blockID)
	})
}

func (s *Server) handleMoveBlock(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	var dir editor.Direction
	switch req.Direction {
	case "up":
		dir = editor.MoveUp
	case "down":
		dir = editor.MoveDown
	default:
		jsonError(w, "direction must be \"up\" or \"down\"", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(c *editor.Controller) {
		c.MoveBlock(blockID, dir)
	})
}

func (s *Server) handleConvertBlock(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")
	var req struct {
		Kind lesson.Kind `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Kind != lesson.KindMessage && req.Kind != lesson.KindCallout {
		jsonError(w, "kind must be \"message\" or \"callout\"", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(c *editor.Controller) {
		c.ConvertKind(blockID, req.Kind)
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(c *editor.Controller) { c.Undo() })
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(c *editor.Controller) { c.Redo() })
}

// handleAnnotate resolves a selection inside one block to a persistent anchor
// and hands it to the host's annotation store when one is configured.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		BlockID   string             `json:"block_id"`
		Selection annotate.Selection `json:"selection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var anchor annotate.Anchor
	var ok bool
	sess.Do(func(c *editor.Controller) {
		anchor, ok = annotate.Locate(c.Document(), req.BlockID, req.Selection)
	})
	if !ok {
		jsonError(w, "selection cannot be anchored", http.StatusUnprocessableEntity)
		return
	}

	if s.host != nil {
		if err := s.host.PutAnchor(r.Context(), sess.ID, anchor); err != nil {
			s.log.Warn("anchor sync failed", "session_id", sess.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, anchor)
}
