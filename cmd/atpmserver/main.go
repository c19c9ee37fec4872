// Command atpmserver is a demo issuer/verifier for the BLS12-381 pairing
// construction, ported from original_source/examples/server.rs: it gates
// token signing behind a username/password and a resource access list,
// and refuses to honor a presented token twice.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/hiddentag/atpm/atpmpairing"
	"github.com/hiddentag/atpm/usedtokens"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	sk, err := atpmpairing.NewPrivateKey()
	if err != nil {
		log.Error("generate signing key", "err", err)
		os.Exit(1)
	}

	u := newUsers()
	u.add("user", "password123")
	u.add("user1", "password123")
	u.add("user2", "password123")
	u.add("user3", "password123")

	ac := newAccessControl()
	for _, name := range []string{"user", "user1", "user2", "user3"} {
		ac.grant(name, "resource")
	}
	for _, name := range []string{"user1", "user2", "user3"} {
		ac.grant(name, "resource1")
	}
	for _, name := range []string{"user2", "user3"} {
		ac.grant(name, "resource2")
	}
	ac.grant("user3", "resource3")

	srv := &server{
		engine:  atpmpairing.Engine{},
		private: sk,
		public:  sk.Public(),
		users:   u,
		access:  ac,
		used:    usedtokens.New(),
		log:     log,
	}

	r := mux.NewRouter()
	r.HandleFunc("/keys/public", srv.handlePublicKey).Methods(http.MethodGet)
	r.HandleFunc("/sign", srv.handleSign).Methods(http.MethodPost)
	r.HandleFunc("/resource", srv.handleResource).Methods(http.MethodPost)

	log.Info("listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}
