package server

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/redactyl/drcscan/internal/engine"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 32 << 20

// Paths served by NewHandler.
const (
	PathDetect  = "/detect-obsolete-reports"
	PathHealth  = "/healthz"
	PathCatalog = "/catalog"
)

type Options struct {
	MaxBodyBytes int64  // 0 = DefaultMaxBodyBytes, <0 = unlimited
	CORS         string // "", "*" or a comma-separated origin list
	Logger       hclog.Logger
}

// NewHandler builds the routed, middleware-wrapped handler for eng.
func NewHandler(eng *engine.Engine, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	limit := opts.MaxBodyBytes
	if limit == 0 {
		limit = DefaultMaxBodyBytes
	}
	h := &handlers{eng: eng, maxBody: limit, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc(PathDetect, h.detect)
	mux.HandleFunc(PathHealth, h.health)
	mux.HandleFunc(PathCatalog, h.catalog)

	var out http.Handler = mux
	out = Recover(log)(out)
	out = AccessLog(log)(out)
	if opts.CORS != "" {
		out = CORS(opts.CORS)(out)
	}
	out = RequestID(out)
	return out
}
