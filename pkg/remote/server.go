// Package remote 通过 HTTP 提供两个窗口的画面，并把浏览器中的按键和鼠标事件转发给会话
package remote

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/novvoo/go-presentation/pkg/geom"
	"github.com/novvoo/go-presentation/pkg/interaction"
	"github.com/novvoo/go-presentation/pkg/logger"
	"github.com/novvoo/go-presentation/pkg/session"
)

// TokenHeader 携带访问令牌的请求头；也可用查询参数 token
const TokenHeader = "X-Presentation-Token"

//go:embed templates/*
var templateFS embed.FS

// EventQueue 接收远程事件的会话端
type EventQueue interface {
	PostKey(ev session.KeyEvent) bool
	PostPointer(ev interaction.PointerEvent) bool
}

// Options 远程服务配置
type Options struct {
	// Rate 每个 IP 每秒允许的 POST 请求数，0 表示不限制
	Rate   int
	Token  string
	Logger *logger.Logger
}

// Server 远程控制 HTTP 服务
type Server struct {
	store  *FrameStore
	events EventQueue
	token  string
	rate   int
	tmpl   *template.Template
	log    *logger.Logger
}

// NewServer 创建远程服务；未指定令牌时随机生成
func NewServer(store *FrameStore, events EventQueue, opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	token := opts.Token
	if token == "" {
		token = uuid.New().String()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/window.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		store:  store,
		events: events,
		token:  token,
		rate:   opts.Rate,
		tmpl:   tmpl,
		log:    log,
	}, nil
}

// Token 访问令牌
func (s *Server) Token() string {
	return s.token
}

// Handler 返回完整的 HTTP 处理链
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware, s.recoveryMiddleware, s.authMiddleware)
	if s.rate > 0 {
		router.Use(postOnly(httprate.LimitByIP(s.rate, time.Second)))
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "presentation"})
	}).Methods("GET")

	router.HandleFunc("/{window:presenter|audience}", s.handleWindow).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/frames/{window:presenter|audience}.png", s.handleFrame).Methods("GET")
	api.HandleFunc("/state", s.handleState).Methods("GET")
	api.HandleFunc("/key", s.handleKey).Methods("POST")
	api.HandleFunc("/pointer", s.handlePointer).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			TokenHeader,
		},
		MaxAge: 300,
	})
	return c.Handler(router)
}

// ListenAndServe 监听 addr，ctx 取消后优雅关闭
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("remote listening", "address", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.log.Info("remote shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

// authMiddleware 除 /health 外都要求令牌
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.Header.Get(TokenHeader)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.token {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// postOnly 只对 POST 请求应用限流
func postOnly(limit func(http.Handler) http.Handler) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("remote request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.log.Warn("panic recovered", "path", r.URL.Path, "panic", v)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Window      string
		Token       string
		Interactive bool
	}{
		Window:      mux.Vars(r)["window"],
		Token:       s.token,
		Interactive: mux.Vars(r)["window"] == session.WindowPresenter,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error("template failed", err)
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	window := mux.Vars(r)["window"]
	f, ok := s.store.Frame(window)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no frame yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Frame-Seq", strconv.FormatUint(f.Seq, 10))
	w.Write(f.PNG)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, ok := s.store.Status()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no state yet")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// KeyRequest POST /api/v1/key 的请求体
type KeyRequest struct {
	Key  string `json:"key"`
	Mods string `json:"mods"`
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ev, ok := session.ParseKey(req.Key)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown key")
		return
	}
	ev.Mods = session.ParseModifiers(req.Mods)
	s.enqueue(w, s.events.PostKey(ev))
}

// PointerRequest POST /api/v1/pointer 的请求体，坐标为演讲者画面像素
type PointerRequest struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	DY   float64 `json:"dy"`
	Mods string  `json:"mods"`
}

var pointerKinds = map[string]interaction.EventKind{
	"down":   interaction.PointerDown,
	"drag":   interaction.PointerDrag,
	"up":     interaction.PointerUp,
	"scroll": interaction.Scroll,
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	kind, ok := pointerKinds[req.Kind]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown pointer kind")
		return
	}
	ev := interaction.PointerEvent{
		Kind:   kind,
		Pos:    geom.Point{X: req.X, Y: req.Y},
		DeltaY: req.DY,
		Mods:   session.ParseModifiers(req.Mods),
	}
	s.enqueue(w, s.events.PostPointer(ev))
}

func (s *Server) enqueue(w http.ResponseWriter, accepted bool) {
	if !accepted {
		writeError(w, http.StatusServiceUnavailable, "event queue full")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
