package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

// Source supplies the last published snapshot. *sim.Engine satisfies it.
type Source interface {
	Snapshot() dynamo.Bodies
}

type SnapshotResponse struct {
	Bodies dynamo.Bodies `json:"bodies"`
}

// NewHandler serves GET /snapshot, /ws and, when metrics is non-nil,
// /metrics, all behind CORS for allowedOrigins.
func NewHandler(src Source, hub *Hub, metrics http.Handler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /snapshot", snapshotHandler(src))
	mux.HandleFunc("GET /ws", hub.ServeWS)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	logger := slog.With("component", "cors", "operation", "setup")
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	logger.Info("CORS middleware configured", "allowed_origins", allowedOrigins)

	return c.Handler(mux)
}

func snapshotHandler(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodies := src.Snapshot()
		if bodies == nil {
			http.Error(w, "no snapshot published yet", http.StatusServiceUnavailable)
			return
		}

		if !bodies.IsValid() {
			http.Error(w, "body set is non-finite", http.StatusConflict)
			return
		}

		data, err := json.Marshal(SnapshotResponse{Bodies: bodies})
		if err != nil {
			slog.Error("encode snapshot", "component", "stream", "error", err)
			http.Error(w, "encode snapshot", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}
