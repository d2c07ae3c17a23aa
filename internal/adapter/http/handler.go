package httpadapter

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"marketsim/internal/app/observe"
	"marketsim/internal/app/ports"
	"marketsim/internal/app/replay"
	"marketsim/internal/app/tick"
	"marketsim/internal/config"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type tickRunner interface {
	Execute(ctx context.Context) (tick.Response, error)
}

type Handler struct {
	TickUC    tickRunner
	ObserveUC observe.UseCase
	ReplayUC  replay.UseCase
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/world/tick", h.tick)
	api.GET("/world", h.world)
	api.GET("/agents/:id", h.agent)
	api.GET("/companies/:id", h.company)
	api.GET("/log", h.log)

	s.GET("/ops/kpi", h.kpi)
}

var errInvalidQuery = errors.New("invalid query parameter")

func (h Handler) tick(c context.Context, ctx *app.RequestContext) {
	if h.TickUC == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "tick runner not configured")
		return
	}
	resp, err := h.TickUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) world(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ObserveUC.World(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) agent(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ObserveUC.Agent(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) company(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ObserveUC.Company(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) log(c context.Context, ctx *app.RequestContext) {
	req := replay.LogRequest{
		Actor: string(ctx.Query("actor")),
		Kind:  string(ctx.Query("kind")),
	}
	var err error
	if req.Limit, err = queryInt(ctx, "limit"); err != nil {
		writeError(ctx, err)
		return
	}
	if req.Day, err = queryInt(ctx, "day"); err != nil {
		writeError(ctx, err)
		return
	}
	if raw := strings.TrimSpace(string(ctx.Query("hour"))); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, errInvalidQuery)
			return
		}
		req.Hour = &hour
	}

	resp, err := h.ReplayUC.Log(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func queryInt(ctx *app.RequestContext, key string) (int, error) {
	raw := strings.TrimSpace(string(ctx.Query(key)))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errInvalidQuery
	}
	return v, nil
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, tick.ErrTickInProgress):
		writeErrorBody(ctx, consts.StatusConflict, "tick_in_progress", err.Error())
	case errors.Is(err, errInvalidQuery),
		errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, config.ErrInvalidScenario):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
