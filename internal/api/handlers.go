package api

import (
	"encoding/json"
	"net/http"
	"time"

	"olivia/dialogue/internal/auth"
	"olivia/dialogue/internal/config"
	"olivia/dialogue/internal/engine"
	"olivia/dialogue/internal/store"
)

// ingressTokenTTL bounds how long a minted transcript-stream token stays
// valid.
const ingressTokenTTL = 30 * time.Minute

type Handlers struct {
	cfg    config.Config
	store  *store.Store
	engine *engine.Engine
}

func NewHandlers(cfg config.Config, st *store.Store, eng *engine.Engine) *Handlers {
	return &Handlers{cfg: cfg, store: st, engine: eng}
}

func (h *Handlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.engine.StartSession()

	resp := map[string]any{
		"session_id": sess.ID,
		"created_at": sess.CreatedAt,
	}
	if h.cfg.Ingress.TokenSecret != "" {
		exp := time.Now().Add(ingressTokenTTL).Unix()
		resp["ingress_token"] = auth.GenerateIngressToken(h.cfg.Ingress.TokenSecret, sess.ID, exp)
		resp["ingress_token_exp"] = exp
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) HandleEndSession(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	h.engine.EndSession(id)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

func (h *Handlers) HandleGetSession(w http.ResponseWriter, r *http.Request, id string) {
	sess := h.store.GetSession(id)
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sess)
}

func (h *Handlers) HandleListTurns(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": id,
		"turns":      h.store.Turns(id),
	})
}

// HandleMintIngressToken issues a fresh transcript-stream token, for
// collaborators that outlive the one minted at session creation.
func (h *Handlers) HandleMintIngressToken(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	if h.cfg.Ingress.TokenSecret == "" {
		http.Error(w, "ingress auth not configured", http.StatusBadRequest)
		return
	}
	exp := time.Now().Add(ingressTokenTTL).Unix()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ingress_token":     auth.GenerateIngressToken(h.cfg.Ingress.TokenSecret, id, exp),
		"ingress_token_exp": exp,
	})
}
