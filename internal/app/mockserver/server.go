// Имитация REST API репозитория Alfresco для локальной разработки и
// интеграционных тестов клиента. Покрывает только те операции, которые
// использует клиент: выпуск и проверка тикетов, создание узла и
// загрузка содержимого.
package mockserver

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"alfup/internal/domain/alfresco"
)

// Node - узел контента, созданный через API
type Node struct {
	ID      string
	Name    string
	Owner   string
	Content []byte
}

type Server struct {
	log     *slog.Logger
	mu      sync.Mutex
	users   map[string]string // логин -> пароль
	tickets map[string]string // тикет -> логин
	nodes   map[string]*Node
}

func New(log *slog.Logger) *Server {
	return &Server{
		log:     log.With(slog.String("component", "mockserver")),
		users:   make(map[string]string),
		tickets: make(map[string]string),
		nodes:   make(map[string]*Node),
	}
}

// AddUser регистрирует пользователя, которому разрешен вход
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// RevokeTicket отзывает тикет. Так в тестах воспроизводится
// истечение сессии на стороне репозитория.
func (s *Server) RevokeTicket(ticket string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tickets, ticket)
}

// Node возвращает узел по идентификатору
func (s *Server) Node(id string) (*Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, ok := s.nodes[id]
	return node, ok
}

// Router собирает маршруты в точности по путям публичного API Alfresco
func (s *Server) Router() *chi.Mux {
	mux := chi.NewMux()
	mux.Use(s.requestLogger)

	mux.Route("/alfresco/api/-default-/public", func(r chi.Router) {
		r.Post("/authentication/versions/1/tickets", s.handleLogin)
		r.Get("/authentication/versions/1/tickets/-me-", s.handleValidateTicket)
		r.Post("/alfresco/versions/1/nodes/-my-/children", s.handleCreateNode)
		r.Put("/alfresco/versions/1/nodes/{nodeID}/content", s.handleUploadContent)
	})

	return mux
}

// requestLogger логирует входящие запросы
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		s.log.Info("HTTP request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
		)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"userId"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	password, ok := s.users[req.UserID]
	if !ok || password != req.Password {
		writeError(w, http.StatusForbidden, "Login failed")
		return
	}

	ticket := "TICKET_" + uuid.New().String()
	s.tickets[ticket] = req.UserID

	writeEntry(w, http.StatusCreated, &alfresco.Entry{ID: ticket, UserID: req.UserID})
}

func (s *Server) handleValidateTicket(w http.ResponseWriter, r *http.Request) {
	ticket, username, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Ticket is not valid")
		return
	}

	writeEntry(w, http.StatusOK, &alfresco.Entry{ID: ticket, UserID: username})
}

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	_, username, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req struct {
		Name     string `json:"name"`
		NodeType string `json:"nodeType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Invalid node body")
		return
	}
	if req.NodeType != alfresco.TypeContent {
		writeError(w, http.StatusBadRequest, "Unsupported node type: "+req.NodeType)
		return
	}

	node := &Node{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Owner: username,
	}

	s.mu.Lock()
	s.nodes[node.ID] = node
	s.mu.Unlock()

	writeEntry(w, http.StatusCreated, &alfresco.Entry{ID: node.ID})
}

func (s *Server) handleUploadContent(w http.ResponseWriter, r *http.Request) {
	_, _, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	nodeID := chi.URLParam(r, "nodeID")

	s.mu.Lock()
	node, exists := s.nodes[nodeID]
	s.mu.Unlock()
	if !exists {
		writeError(w, http.StatusNotFound, "Node not found: "+nodeID)
		return
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read content")
		return
	}

	s.mu.Lock()
	node.Content = content
	s.mu.Unlock()

	writeEntry(w, http.StatusOK, &alfresco.Entry{ID: nodeID})
}

// authenticate разбирает заголовок Authorization: Basic base64(тикет)
// и проверяет тикет по таблице выданных
func (s *Server) authenticate(r *http.Request) (ticket, username string, ok bool) {
	header := r.Header.Get("Authorization")
	encoded, found := strings.CutPrefix(header, "Basic ")
	if !found {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket = string(decoded)
	username, ok = s.tickets[ticket]
	return ticket, username, ok
}

func writeEntry(w http.ResponseWriter, status int, entry *alfresco.Entry) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(alfresco.Envelope{Entry: entry})
}

func writeError(w http.ResponseWriter, status int, summary string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(alfresco.Envelope{Error: &alfresco.APIError{
		ErrorKey:     summary,
		StatusCode:   status,
		BriefSummary: summary,
	}})
}
