// Package sttws accepts the STT collaborator's websocket and feeds its
// transcript fragments into the engine. At most one stream per session; a
// reconnect replaces the previous stream.
package sttws

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	ws "nhooyr.io/websocket"

	"olivia/dialogue/internal/auth"
	"olivia/dialogue/internal/config"
	"olivia/dialogue/internal/engine"
	"olivia/dialogue/internal/store"
	"olivia/dialogue/internal/types"
)

type Server struct {
	Cfg    config.Config
	Store  *store.Store
	Engine *engine.Engine
	Reg    *Registry
}

func NewServer(cfg config.Config, st *store.Store, eng *engine.Engine, reg *Registry) *Server {
	return &Server{Cfg: cfg, Store: st, Engine: eng, Reg: reg}
}

func (s *Server) HandleTranscriptWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}
	if s.Store.GetSession(sessionID) == nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	if s.Cfg.Ingress.TokenSecret == "" {
		http.Error(w, "ingress auth not configured", http.StatusUnauthorized)
		return
	}
	token := strings.TrimPrefix(authz, "Bearer ")
	if _, _, err := auth.ValidateIngressToken(s.Cfg.Ingress.TokenSecret, token, sessionID, time.Now(), s.Cfg.Ingress.TokenSkewSecs); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	c, err := ws.Accept(w, r, nil)
	if err != nil {
		log.Printf("[sttws] accept sid=%s: %v", sessionID, err)
		return
	}
	if s.Reg.Replace(sessionID, c) {
		log.Printf("[sttws] stream replaced sid=%s", sessionID)
	}
	metricConnects.Inc()

	ctx := r.Context()
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			break
		}
		if typ != ws.MessageText && typ != ws.MessageBinary {
			continue
		}
		var frag types.TranscriptFragment
		if err := json.Unmarshal(data, &frag); err != nil {
			metricInvalid.Inc()
			continue
		}
		frag.SessionID = sessionID
		if frag.Ts.IsZero() {
			frag.Ts = time.Now()
		}
		s.Engine.Ingest(frag)
	}
	_ = c.Close(ws.StatusNormalClosure, "done")
	s.Reg.Remove(sessionID)
	log.Printf("[sttws] stream closed sid=%s", sessionID)
}
