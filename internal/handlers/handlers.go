package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"tenders/internal/domain"
	"tenders/internal/service"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler связывает HTTP-запросы с операциями сервиса.
type Handler struct {
	Core   Core
	logger *log.Logger
}

// NewHandler создает новый Handler
func NewHandler(core Core, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{Core: core, logger: logger.WithPrefix("http")}
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type errorResponse struct {
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError отвечает {"reason": ...}. Внутренние ошибки пишутся в лог,
// клиент видит только общую причину.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	writeJSON(w, statusOf(kind), errorResponse{Reason: domain.ReasonOf(err)})
}

func badRequest(format string, args ...any) error {
	return domain.Invalid("validation error: " + fmt.Sprintf(format, args...))
}

// decodeJSON читает тело запроса в v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	// Ограничение размера тела, чтобы избежать DoS
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return badRequest("request body too large")
		}
		return badRequest("invalid JSON: %v", err)
	}
	return nil
}

// queryInt читает целый параметр запроса. Если его нет, возвращает def.
func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	return n, nil
}

// parsePage парсит limit и offset. Диапазоны проверяет сервис.
func parsePage(r *http.Request) (service.Page, error) {
	limit, err := queryInt(r, "limit", service.DefaultPage.Limit)
	if err != nil {
		return service.Page{}, err
	}
	offset, err := queryInt(r, "offset", service.DefaultPage.Offset)
	if err != nil {
		return service.Page{}, err
	}
	return service.Page{Limit: limit, Offset: offset}, nil
}

func parseVersion(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, badRequest("version must be an integer")
	}
	return v, nil
}
