package handlers

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions - настройки маршрутизатора.
type RouterOptions struct {
	AllowedOrigins []string
	Metrics        bool
}

// NewRouter собирает маршруты /api и общий стек middleware.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(recoverer(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		// тендеры
		r.Get("/tenders", h.GetTendersHandler)
		r.Get("/tenders/my", h.GetUserTendersHandler)
		r.Post("/tenders/new", h.CreateTenderHandler)
		r.Get("/tenders/{tenderId}/status", h.GetTenderStatusHandler)
		r.Put("/tenders/{tenderId}/status", h.ChangeTenderStatusHandler)
		r.Patch("/tenders/{tenderId}/edit", h.EditTenderHandler)
		r.Put("/tenders/{tenderId}/rollback/{version}", h.RollbackTenderHandler)

		// предложения (bids)
		r.Post("/bids/new", h.CreateBidHandler)
		r.Get("/bids/my", h.GetUserBidsHandler)
		r.Get("/bids/{tenderId}/list", h.GetBidsForTenderHandler)
		r.Get("/bids/{tenderId}/reviews", h.GetBidReviewsHandler)
		r.Get("/bids/{bidId}/status", h.GetBidStatusHandler)
		r.Put("/bids/{bidId}/status", h.UpdateBidStatusHandler)
		r.Patch("/bids/{bidId}/edit", h.EditBidHandler)
		r.Put("/bids/{bidId}/rollback/{version}", h.RollbackBidHandler)
		r.Put("/bids/{bidId}/feedback", h.CreateBidFeedbackHandler)
		r.Put("/bids/{bidId}/submit_decision", h.SubmitBidDecisionHandler)
	})

	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoverer(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						"panic", rvr,
						"stack", string(debug.Stack()),
						"request_id", middleware.GetReqID(r.Context()),
					)
					writeJSON(w, http.StatusInternalServerError, errorResponse{Reason: "internal server error"})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
