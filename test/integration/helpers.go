package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// fakeServer is a minimal in-process PocketBase stand-in covering the
// endpoints the client exercises: password auth, token refresh, record
// CRUD with pagination, and the health probe.
type fakeServer struct {
	mu       sync.Mutex
	nextID   int
	records  map[string]map[string]map[string]interface{} // collection -> id -> record
	accounts map[string]string                            // identity -> password
	tokens   map[string]string                            // token -> identity
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		records:  make(map[string]map[string]map[string]interface{}),
		accounts: map[string]string{"tester@example.com": "secret123"},
		tokens:   make(map[string]string),
	}
}

func (s *fakeServer) start() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/auth/refresh", s.handleRefresh)
	mux.HandleFunc("/api/collections/", s.handleCollections)

	return httptest.NewServer(mux)
}

func (s *fakeServer) handleHealth(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, map[string]interface{}{
		"code":    200,
		"message": "API is healthy.",
	})
}

func (s *fakeServer) handleRefresh(writer http.ResponseWriter, request *http.Request) {
	identity, ok := s.authenticate(request)
	if !ok {
		writeJSON(writer, http.StatusUnauthorized, map[string]interface{}{
			"message": "The request requires valid record authorization token to be set.",
		})

		return
	}

	token := s.issueToken(identity)
	writeJSON(writer, http.StatusOK, map[string]interface{}{
		"token":  token,
		"record": map[string]interface{}{"id": "usr1", "email": identity},
	})
}

func (s *fakeServer) handleCollections(writer http.ResponseWriter, request *http.Request) {
	parts := strings.Split(strings.TrimPrefix(request.URL.Path, "/api/collections/"), "/")
	if len(parts) < 2 {
		writer.WriteHeader(http.StatusNotFound)

		return
	}

	collection := parts[0]

	switch {
	case parts[1] == "auth-with-password":
		s.handleAuth(writer, request)
	case parts[1] == "records" && len(parts) == 2:
		s.handleRecords(writer, request, collection)
	case parts[1] == "records" && len(parts) == 3:
		s.handleRecord(writer, request, collection, parts[2])
	default:
		writer.WriteHeader(http.StatusNotFound)
	}
}

func (s *fakeServer) handleAuth(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Identity string `json:"identity"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		writer.WriteHeader(http.StatusBadRequest)

		return
	}

	s.mu.Lock()
	password, exists := s.accounts[body.Identity]
	s.mu.Unlock()

	if !exists || password != body.Password {
		writeJSON(writer, http.StatusBadRequest, map[string]interface{}{
			"message": "Failed to authenticate.",
		})

		return
	}

	token := s.issueToken(body.Identity)
	writeJSON(writer, http.StatusOK, map[string]interface{}{
		"token":  token,
		"record": map[string]interface{}{"id": "usr1", "email": body.Identity},
	})
}

func (s *fakeServer) handleRecords(writer http.ResponseWriter, request *http.Request, collection string) {
	switch request.Method {
	case http.MethodGet:
		s.listRecords(writer, request, collection)
	case http.MethodPost:
		s.createRecord(writer, request, collection)
	default:
		writer.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *fakeServer) handleRecord(writer http.ResponseWriter, request *http.Request, collection, recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[collection][recordID]
	if !exists {
		writeJSON(writer, http.StatusNotFound, map[string]interface{}{
			"message": "The requested resource wasn't found.",
		})

		return
	}

	switch request.Method {
	case http.MethodGet:
		writeJSON(writer, http.StatusOK, record)
	case http.MethodPatch:
		var fields map[string]interface{}
		if err := json.NewDecoder(request.Body).Decode(&fields); err != nil {
			writer.WriteHeader(http.StatusBadRequest)

			return
		}

		for key, value := range fields {
			record[key] = value
		}

		writeJSON(writer, http.StatusOK, record)
	case http.MethodDelete:
		delete(s.records[collection], recordID)
		writer.WriteHeader(http.StatusNoContent)
	default:
		writer.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *fakeServer) listRecords(writer http.ResponseWriter, request *http.Request, collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.records[collection]))
	for id := range s.records[collection] {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	page, _ := strconv.Atoi(request.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(request.URL.Query().Get("perPage"))
	if perPage < 1 {
		perPage = 30
	}

	totalItems := len(ids)
	totalPages := (totalItems + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > totalItems {
		start = totalItems
	}

	end := start + perPage
	if end > totalItems {
		end = totalItems
	}

	items := make([]map[string]interface{}, 0, end-start)
	for _, id := range ids[start:end] {
		items = append(items, s.records[collection][id])
	}

	writeJSON(writer, http.StatusOK, map[string]interface{}{
		"page":       page,
		"perPage":    perPage,
		"totalItems": totalItems,
		"totalPages": totalPages,
		"items":      items,
	})
}

func (s *fakeServer) createRecord(writer http.ResponseWriter, request *http.Request, collection string) {
	if _, ok := s.authenticate(request); !ok {
		writeJSON(writer, http.StatusUnauthorized, map[string]interface{}{
			"message": "The request requires valid record authorization token to be set.",
		})

		return
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(request.Body).Decode(&fields); err != nil {
		writer.WriteHeader(http.StatusBadRequest)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := fmt.Sprintf("rec%03d", s.nextID)

	record := map[string]interface{}{"id": id}
	for key, value := range fields {
		record[key] = value
	}

	if s.records[collection] == nil {
		s.records[collection] = make(map[string]map[string]interface{})
	}

	s.records[collection][id] = record

	writeJSON(writer, http.StatusOK, record)
}

func (s *fakeServer) issueToken(identity string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := fmt.Sprintf("token-%s-%d", identity, len(s.tokens)+1)
	s.tokens[token] = identity

	return token
}

func (s *fakeServer) authenticate(request *http.Request) (string, bool) {
	header := request.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")

	if token == "" || token == header {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.tokens[token]

	return identity, ok
}

func writeJSON(writer http.ResponseWriter, status int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}
