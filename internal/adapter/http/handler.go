package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"urbandesign/internal/app/build"
	"urbandesign/internal/app/episode"
	"urbandesign/internal/app/ports"
	"urbandesign/internal/app/replay"
	"urbandesign/internal/domain/economy"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// EpisodeService is the slice of the episode runner the HTTP surface drives.
type EpisodeService interface {
	Reset(ctx context.Context) (episode.ResetResult, error)
	Step(ctx context.Context, req episode.StepRequest) (episode.StepResult, error)
	Observations() map[string]build.Observation
	Masks() map[string][]bool
	Metrics() map[string]float64
	DenseLog() []economy.BuildBatch
	EpisodeID() string
	StepCount() int
}

type Handler struct {
	Episode  EpisodeService
	ReplayUC replay.UseCase
	KPI      kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())
	s.OPTIONS("/*path", func(context.Context, *app.RequestContext) {})

	ep := s.Group("/api/episode")
	ep.GET("", h.episodeStatus)
	ep.POST("/reset", h.reset)
	ep.POST("/step", h.step)

	b := s.Group("/api/build")
	b.GET("/observations", h.observations)
	b.GET("/masks", h.masks)
	b.GET("/metrics", h.metrics)
	b.GET("/dense_log", h.denseLog)

	s.GET("/api/replay", h.replay)
	s.GET("/ops/kpi", h.kpi)
}

type stepRequest struct {
	Actions map[string]int `json:"actions"`
}

type episodeStatusResponse struct {
	EpisodeID string `json:"episode_id"`
	Step      int    `json:"step"`
}

func (h Handler) episodeStatus(_ context.Context, ctx *app.RequestContext) {
	id := h.Episode.EpisodeID()
	if id == "" {
		writeError(ctx, episode.ErrNotStarted)
		return
	}
	ctx.JSON(consts.StatusOK, episodeStatusResponse{EpisodeID: id, Step: h.Episode.StepCount()})
}

func (h Handler) reset(c context.Context, ctx *app.RequestContext) {
	resp, err := h.Episode.Reset(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// step uses the body's actions when the field is present, even if empty;
// otherwise the server-side policy chooses.
func (h Handler) step(c context.Context, ctx *app.RequestContext) {
	var body stepRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if hasJSONField(ctx.Request.Body(), "actions") && body.Actions == nil {
		body.Actions = map[string]int{}
	}

	resp, err := h.Episode.Step(c, episode.StepRequest{Actions: body.Actions})
	if err != nil {
		if writeStepRejectedFromErr(ctx, err) {
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) observations(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.Episode.Observations())
}

func (h Handler) masks(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.Episode.Masks())
}

func (h Handler) metrics(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.Episode.Metrics())
}

func (h Handler) denseLog(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{
		"episode_id": h.Episode.EpisodeID(),
		"builds":     h.Episode.DenseLog(),
	})
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	recordedFrom, _ := strconv.ParseInt(string(ctx.Query("recorded_from")), 10, 64)
	recordedTo, _ := strconv.ParseInt(string(ctx.Query("recorded_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		EpisodeID:    string(ctx.Query("episode_id")),
		Limit:        limit,
		RecordedFrom: recordedFrom,
		RecordedTo:   recordedTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
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

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func hasJSONField(body []byte, key string) bool {
	if len(body) == 0 {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return false
	}
	_, ok := m[key]
	return ok
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, economy.ErrInvalidAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_action", err.Error())
	case errors.Is(err, episode.ErrNotStarted):
		writeErrorBody(ctx, consts.StatusConflict, "episode_not_started", err.Error())
	case errors.Is(err, episode.ErrEpisodeAborted):
		writeErrorBody(ctx, consts.StatusConflict, "episode_aborted", err.Error())
	case errors.Is(err, episode.ErrEpisodeDone):
		writeErrorBody(ctx, consts.StatusConflict, "episode_done", err.Error())
	case errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
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

// writeStepRejectedFromErr reports which agent submitted an invalid action.
// The episode stays aborted until the next reset.
func writeStepRejectedFromErr(ctx *app.RequestContext, err error) bool {
	var actionErr *economy.ActionError
	if !errors.As(err, &actionErr) || actionErr == nil {
		return false
	}
	ctx.JSON(consts.StatusBadRequest, map[string]any{
		"result_code": "REJECTED",
		"error": map[string]any{
			"code":    "invalid_action",
			"message": err.Error(),
			"details": map[string]any{
				"agent_id": actionErr.AgentID,
				"action":   actionErr.Action,
			},
		},
	})
	return true
}
