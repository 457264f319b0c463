// Package server 请求处理
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
	"github.com/Kevin-Rudy/timeblock/pkg/resolver"
	"github.com/Kevin-Rudy/timeblock/pkg/store"
)

// scheduleRequest 新增日程的请求体
type scheduleRequest struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Title string `json:"title"`
}

// validate 校验请求并转换为日期和日程项
func (r scheduleRequest) validate() (core.Date, core.ScheduleItem, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return "", core.ScheduleItem{}, errors.New("日期格式必须是yyyy-MM-dd")
	}
	if strings.TrimSpace(r.Time) == "" {
		return "", core.ScheduleItem{}, errors.New("时间不能为空")
	}
	if strings.TrimSpace(r.Title) == "" {
		return "", core.ScheduleItem{}, errors.New("标题不能为空")
	}
	wc, err := core.ParseWallClock(r.Time)
	if err != nil {
		return "", core.ScheduleItem{}, errors.New("时间格式必须是HH:MM")
	}
	return date, core.ScheduleItem{Time: wc, Title: strings.TrimSpace(r.Title)}, nil
}

// statusResponse 状态查询的响应
type statusResponse struct {
	Date     core.Date          `json:"date"`
	Now      core.WallClock     `json:"now"`
	Kind     string             `json:"kind"`
	Index    *int               `json:"index,omitempty"`
	Previous *core.ScheduleItem `json:"previous"`
	Current  *core.ScheduleItem `json:"current"`
	Next     *core.ScheduleItem `json:"next"`
}

// dateParam 读取并校验date查询参数
func dateParam(r *http.Request) (core.Date, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return "", errors.New("date required")
	}
	return core.ParseDate(raw)
}

// handleTimetable 返回指定日期按时间排序的日程
func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.store.ItemsForDate(r.Context(), date)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("date", date.String()).Msg("load timetable failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// handleCreateEntry 新增一条日程
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, item, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := s.store.Add(r.Context(), date, item)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create entry failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// handleDeleteEntry 删除一条日程
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "entry not found")
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("id", id).Msg("delete entry failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleDates 返回所有存在日程的日期
func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.store.Dates(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list dates failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

// handleStatus 在服务端解析指定日期、指定时刻的状态
// date缺省为服务器当天，time缺省为服务器当前时刻
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := s.clock()

	date := core.DateOf(now)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := core.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		date = parsed
	}

	clock := core.WallClockFromTime(now)
	if raw := r.URL.Query().Get("time"); raw != "" {
		parsed, err := core.ParseWallClock(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		clock = parsed
	}

	items, err := s.store.ItemsForDate(r.Context(), date)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("date", date.String()).Msg("load timetable failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := core.Status{Kind: core.StatusNoSchedule}
	if len(items) > 0 {
		status = resolver.Resolve(clock, items)
	}

	resp := statusResponse{
		Date:     date,
		Now:      clock,
		Kind:     status.Kind.String(),
		Previous: status.Previous,
		Current:  status.Current,
		Next:     status.Next,
	}
	if status.Kind == core.StatusDuring {
		index := status.Index
		resp.Index = &index
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
