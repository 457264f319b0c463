// Package server 提供时间表HTTP服务
// 按日期提供日程列表、接收新日程，并在服务端解析当前状态
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Kevin-Rudy/timeblock/pkg/store"
)

// Server 时间表HTTP服务
type Server struct {
	config *Config
	store  *store.Store
	logger zerolog.Logger
	clock  func() time.Time
	router chi.Router
}

// New 创建服务
func New(config *Config, st *store.Store, logger zerolog.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New("必须指定存储")
	}

	s := &Server{
		config: config,
		store:  st,
		logger: logger.With().Str("component", "server").Logger(),
		clock:  time.Now,
	}
	s.router = s.routes()
	return s, nil
}

// Handler 返回HTTP处理器
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes 注册路由
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/timetable", func(r chi.Router) {
			r.Get("/", s.handleTimetable)
			r.Post("/", s.handleCreateEntry)
			r.Get("/dates", s.handleDates)
			r.Delete("/{id}", s.handleDeleteEntry)
		})
		r.Get("/status", s.handleStatus)
	})

	return r
}

// Run 启动服务并阻塞，ctx取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve 在给定的listener上提供服务
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("timetable server listening")
		errChan <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("shutting down timetable server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	return nil
}
