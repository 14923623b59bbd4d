// Package server 提供规范化的 HTTP/WebSocket 接口。
// 同一时间只运行一个规范化任务，任务状态可轮询或通过 WebSocket 订阅。
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/config"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/normalizer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

// normalizeFunc 规范化入口，测试时可替换
type normalizeFunc func(attrset.Set, []fd.Dependency) (*normalizer.Result, error)

// Server 规范化服务
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	limiter *rate.Limiter

	mu      sync.RWMutex
	tasks   map[string]*Task
	running string // 正在执行的任务ID

	normalize    normalizeFunc
	pollInterval time.Duration
}

// New 创建服务
func New(cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:          cfg,
		logger:       logger,
		tasks:        make(map[string]*Task),
		normalize:    normalizer.Normalize,
		pollInterval: 500 * time.Millisecond,
	}
	if cfg.RateLimitRPS > 0 {
		burst := int(cfg.RateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	return s
}

// Handler 路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/normalize", s.limit(s.handleNormalize))
	mux.HandleFunc("/api/task/", s.handleTaskStatus)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	mux.HandleFunc("/api/keys", s.limit(s.handleKeys))
	mux.HandleFunc("/api/closure", s.limit(s.handleClosure))
	mux.HandleFunc("/api/analyze", s.limit(s.handleAnalyze))
	mux.HandleFunc("/api/test-connection", s.limit(s.handleTestConnection))
	return mux
}

// limit 超过速率时返回 429
func (s *Server) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.logger.Warn("rate limited", zap.String("path", r.URL.Path), zap.String("remote", r.RemoteAddr))
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
