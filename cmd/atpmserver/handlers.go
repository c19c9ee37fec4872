package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hiddentag/atpm/atpmpairing"
	"github.com/hiddentag/atpm/usedtokens"
)

// server wires the demo endpoints from original_source/examples/server.rs
// to the BLS12-381 pairing engine: a metadata-gated issuer and a
// replay-checking resource handler.
type server struct {
	engine  atpmpairing.Engine
	private atpmpairing.PrivateKey
	public  atpmpairing.PublicKey
	users   *users
	access  *accessControl
	used    *usedtokens.Store
	log     *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}

func (s *server) handlePublicKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.public)
}

// signRequest mirrors original_source/examples/util/mod.rs's GetToken
// wire shape exactly: point, username, password.
type signRequest struct {
	Point    atpmpairing.RandomizedUnsignedToken `json:"point"`
	Username string                              `json:"username"`
	Password string                              `json:"password"`
}

func (s *server) handleSign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	if !s.users.verify(req.Username, req.Password) {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	resource := string(req.Point.Metadata())
	if !s.access.allowed(req.Username, resource) {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	signed, ok := s.engine.SignRandomized(req.Point, s.private)
	if !ok {
		s.log.Warn("sign_randomized failed", "user", req.Username)
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, signed)
}

func (s *server) handleResource(w http.ResponseWriter, r *http.Request) {
	var token atpmpairing.SignedToken
	if err := json.NewDecoder(r.Body).Decode(&token); err != nil {
		http.Error(w, "malformed token", http.StatusBadRequest)
		return
	}

	key, err := token.MarshalJSON()
	if err != nil {
		http.Error(w, "malformed token", http.StatusBadRequest)
		return
	}

	if s.used.CheckAndMark(key) || !s.engine.Verify(token, s.public) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	w.Write([]byte("you have access to this resource"))
}
