// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authoritytest provides an in-memory authority HTTP server for tests.
package authoritytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/jeranaias/shepard-terminal/internal/authority"
)

// TransferBody is the decoded body of a transfer request as received.
type TransferBody struct {
	FromAccountNumber string         `json:"from_account_number"`
	ToAccountNumber   string         `json:"to_account_number"`
	Amount            json.Number    `json:"amount"`
	Description       *string        `json:"description"`
	TerminalKey       *string        `json:"terminal_key"`
	Raw               map[string]any `json:"-"`
}

// Server is a fake authority backed by maps.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	users        map[string]*authority.User // by barcode
	passwords    map[string]string          // by barcode
	terminalKeys map[string]bool
	counts       map[string]int
	failures     map[string]int // path prefix -> status to return
	transfers    []TransferBody
	nextTxID     int
}

// NewServer starts a fake authority. Close it with t.Cleanup(s.Close).
func NewServer() *Server {
	s := &Server{
		users:        make(map[string]*authority.User),
		passwords:    make(map[string]string),
		terminalKeys: make(map[string]bool),
		counts:       make(map[string]int),
		failures:     make(map[string]int),
		nextTxID:     1,
	}

	r := chi.NewRouter()
	r.Use(s.countAndFail)
	r.Post("/api/gatekeeping/verify", s.gatekeeping(false))
	r.Post("/api/gatekeeping/process", s.gatekeeping(true))
	r.Post("/api/users/authenticate", s.authenticate)
	r.Get("/api/users/search", s.search)
	r.Get("/api/users/barcode/{barcode}", s.userByBarcode)
	r.Get("/api/users/account/{account}", s.userByAccount)
	r.Get("/api/currency/balance/{account}", s.balance)
	r.Post("/api/currency/transfer", s.transfer)

	s.Server = httptest.NewServer(r)
	return s
}

// AddUser registers a user and the password used by authenticate.
func (s *Server) AddUser(u authority.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Barcode] = &u
	s.passwords[u.Barcode] = password
}

// AddTerminalKey marks a terminal key as registered.
func (s *Server) AddTerminalKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminalKeys[key] = true
}

// FailPath makes every request whose path starts with prefix return status.
func (s *Server) FailPath(prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[prefix] = status
}

// Calls returns how many requests hit the exact path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[path]
}

// Transfers returns the transfer bodies received so far.
func (s *Server) Transfers() []TransferBody {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TransferBody, len(s.transfers))
	copy(out, s.transfers)
	return out
}

func (s *Server) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.counts[r.URL.Path]++
		status := 0
		for prefix, code := range s.failures {
			if strings.HasPrefix(r.URL.Path, prefix) {
				status = code
			}
		}
		s.mu.Unlock()

		if status != 0 {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) gatekeeping(process bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authority.GatekeepingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.terminalKeys[req.TerminalKey] {
			writeError(w, http.StatusUnauthorized, "Invalid terminal key")
			return
		}
		u, ok := s.users[req.Barcode]
		if !ok {
			writeJSON(w, http.StatusOK, authority.GatekeepingResponse{Message: "User not found"})
			return
		}
		resp := authority.GatekeepingResponse{
			Success:         !u.PassRevoked,
			User:            u.Clone(),
			UserPermissions: u.Permissions,
			CurrentBalance:  u.Balance,
			Message:         "Access granted",
		}
		if u.PassRevoked {
			resp.Message = "Pass revoked"
		} else if process {
			resp.Message = "Access granted and processed"
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Barcode  string `json:"barcode"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Barcode]
	if !ok || s.passwords[req.Barcode] != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = authority.SearchLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result := authority.SearchResult{Users: []authority.User{}}
	for _, u := range s.users {
		haystack := strings.ToLower(strings.Join([]string{u.FirstName, u.LastName, u.Barcode, u.AccountNumber}, " "))
		if query == "" || strings.Contains(haystack, query) {
			result.Total++
			if len(result.Users) < limit {
				result.Users = append(result.Users, *u.Clone())
			}
		}
	}
	sortUsers(result.Users)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) userByBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[barcode]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) userByAccount(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.byAccount(account); u != nil {
		writeJSON(w, http.StatusOK, u)
		return
	}
	writeError(w, http.StatusNotFound, "User not found")
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byAccount(account)
	if u == nil {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	count := 0
	for _, t := range s.transfers {
		if t.FromAccountNumber == account || t.ToAccountNumber == account {
			count++
		}
	}
	writeJSON(w, http.StatusOK, authority.Balance{
		AccountNumber:    account,
		Balance:          u.Balance,
		TransactionCount: count,
	})
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	data, _ := json.Marshal(raw)
	var body TransferBody
	if err := json.Unmarshal(data, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	body.Raw = raw

	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.byAccount(body.FromAccountNumber)
	if from == nil {
		writeError(w, http.StatusNotFound, "Source account not found")
		return
	}
	to := s.byAccount(body.ToAccountNumber)
	if to == nil {
		writeError(w, http.StatusNotFound, "Destination account not found")
		return
	}
	amount, err := body.Amount.Float64()
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if !from.CanGoNegative && from.Balance < amount {
		writeError(w, http.StatusBadRequest, "Insufficient funds")
		return
	}
	from.Balance -= amount
	to.Balance += amount
	s.transfers = append(s.transfers, body)

	tx := authority.Transaction{
		ID:            s.nextTxID,
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        amount,
		Description:   body.Description,
		CreatedAt:     "2025-01-01T00:00:00Z",
	}
	s.nextTxID++
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) byAccount(account string) *authority.User {
	for _, u := range s.users {
		if u.AccountNumber == account {
			return u
		}
	}
	return nil
}

func sortUsers(users []authority.User) {
	slices.SortFunc(users, func(a, b authority.User) int { return a.ID - b.ID })
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
