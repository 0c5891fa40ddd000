package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tenders/internal/handlers"
	"tenders/internal/service"
	"tenders/internal/store/database"
	"tenders/internal/testutil"
	"tenders/models"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

type api struct {
	t      *testing.T
	router http.Handler
}

func (a *api) do(method, target, body string) (int, []byte) {
	a.t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(a.t, err)
	return res.StatusCode, data
}

func TestRouterTenderAndBidFlow(t *testing.T) {
	dbx := testutil.OpenDB(t)
	s := database.New()
	seed := testutil.NewSeed(t, dbx, s)
	org := seed.Organization("Customer")
	owner := seed.Employee("owner")
	bidder := seed.Employee("bidder")
	seed.Responsible(org, owner)

	logger := log.New(io.Discard)
	h := handlers.NewHandler(service.New(dbx, s), logger)
	a := &api{t: t, router: handlers.NewRouter(h, handlers.RouterOptions{AllowedOrigins: []string{"*"}, Metrics: true})}

	code, body := a.do(http.MethodGet, "/api/ping", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", string(body))

	code, body = a.do(http.MethodPost, "/api/tenders/new", `{
		"name": "Road",
		"description": "Build a road",
		"serviceType": "Construction",
		"organizationId": "`+org.ID.String()+`",
		"creatorUsername": "owner"
	}`)
	require.Equal(t, http.StatusOK, code, string(body))
	var tender models.TenderResponse
	require.NoError(t, json.Unmarshal(body, &tender))
	require.Equal(t, models.TenderCreated, tender.Status)
	require.Equal(t, 1, tender.Version)
	require.NotEmpty(t, tender.CreatedAt)

	base := "/api/tenders/" + tender.ID.String()

	code, _ = a.do(http.MethodGet, base+"/status", "")
	require.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodPatch, base+"/edit?username=bidder", `{"name":"Hijack"}`)
	require.Equal(t, http.StatusForbidden, code)

	code, body = a.do(http.MethodPatch, base+"/edit?username=owner", `{"name":"Highway"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &tender))
	require.Equal(t, 2, tender.Version)
	require.Equal(t, "Build a road", tender.Description)

	code, body = a.do(http.MethodPut, base+"/rollback/1?username=owner", "")
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &tender))
	require.Equal(t, 3, tender.Version)
	require.Equal(t, "Road", tender.Name)

	code, _ = a.do(http.MethodPut, base+"/status?username=owner&status=Published", "")
	require.Equal(t, http.StatusOK, code)

	code, body = a.do(http.MethodGet, base+"/status", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `"Published"`, string(body))

	code, body = a.do(http.MethodGet, "/api/tenders?service_type=Construction", "")
	require.Equal(t, http.StatusOK, code)
	var tenders []models.TenderResponse
	require.NoError(t, json.Unmarshal(body, &tenders))
	require.Len(t, tenders, 1)

	code, _ = a.do(http.MethodGet, "/api/tenders?limit=51", "")
	require.Equal(t, http.StatusBadRequest, code)

	code, body = a.do(http.MethodPost, "/api/bids/new", `{
		"name": "Offer",
		"description": "Cheap",
		"tenderId": "`+tender.ID.String()+`",
		"authorType": "User",
		"authorId": "`+bidder.ID.String()+`"
	}`)
	require.Equal(t, http.StatusOK, code, string(body))
	var bid models.BidResponse
	require.NoError(t, json.Unmarshal(body, &bid))
	require.Equal(t, models.BidCreated, bid.Status)

	bidBase := "/api/bids/" + bid.ID.String()

	code, _ = a.do(http.MethodGet, bidBase+"/status?username=owner", "")
	require.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodPut, bidBase+"/status?username=bidder&status=Published", "")
	require.Equal(t, http.StatusOK, code)

	code, body = a.do(http.MethodGet, "/api/bids/"+tender.ID.String()+"/list?username=owner", "")
	require.Equal(t, http.StatusOK, code)
	var bids []models.BidResponse
	require.NoError(t, json.Unmarshal(body, &bids))
	require.Len(t, bids, 1)

	code, _ = a.do(http.MethodPut, bidBase+"/feedback?username=owner&bidFeedback=too+expensive", "")
	require.Equal(t, http.StatusOK, code)

	code, body = a.do(http.MethodGet, "/api/bids/"+tender.ID.String()+"/reviews?authorUsername=bidder&requesterUsername=owner", "")
	require.Equal(t, http.StatusOK, code)
	var reviews []models.BidReviewResponse
	require.NoError(t, json.Unmarshal(body, &reviews))
	require.Len(t, reviews, 1)
	require.Equal(t, "too expensive", reviews[0].Description)

	code, _ = a.do(http.MethodPut, bidBase+"/submit_decision?username=owner&decision=Approved", "")
	require.Equal(t, http.StatusOK, code)
	code, body = a.do(http.MethodPut, bidBase+"/submit_decision?username=owner&decision=Approved", "")
	require.Equal(t, http.StatusConflict, code)
	require.JSONEq(t, `{"reason":"decision already submitted"}`, string(body))

	code, _ = a.do(http.MethodGet, "/api/bids/not-a-uuid/status?username=owner", "")
	require.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(http.MethodGet, bidBase+"/status?username=ghost", "")
	require.Equal(t, http.StatusUnauthorized, code)

	code, body = a.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(body), "tenders_versions_appended_total")
}

func TestRouterCORSWithoutCredentials(t *testing.T) {
	h := handlers.NewHandler(&MockCore{}, log.New(io.Discard))
	router := handlers.NewRouter(h, handlers.RouterOptions{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/tenders/new", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}
