package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/usecase"
)

// PredictObserver receives prediction outcomes for metrics
type PredictObserver interface {
	ObservePrediction(label string, triggered bool)
	ObservePredictFailure(code string)
	ObservePredictDuration(elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObservePrediction(string, bool)       {}
func (noopObserver) ObservePredictFailure(string)         {}
func (noopObserver) ObservePredictDuration(time.Duration) {}

// PredictRequest is accepted as JSON or as a form field
type PredictRequest struct {
	Message string `json:"message" form:"message"`
}

// PredictResponse holds the evaluation of every label
type PredictResponse struct {
	Results   map[entity.Label]entity.Evaluation `json:"results"`
	Triggered []entity.Label                     `json:"triggered"`
}

// PredictHandler handles message classification requests
type PredictHandler struct {
	predictUC  usecase.PredictUsecase
	thresholds usecase.ThresholdProvider
	observer   PredictObserver
	logger     *zap.Logger
}

// NewPredictHandler creates a new predict handler; observer may be nil
func NewPredictHandler(predictUC usecase.PredictUsecase, thresholds usecase.ThresholdProvider, observer PredictObserver, logger *zap.Logger) *PredictHandler {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictHandler{
		predictUC:  predictUC,
		thresholds: thresholds,
		observer:   observer,
		logger:     logger,
	}
}

// Predict handles POST /api/v1/predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	results, err := h.predictUC.Predict(ctx, req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}

	thresholds, err := h.thresholds.Thresholds(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	evaluations, err := usecase.EvaluateThresholds(results, thresholds)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.observer.ObservePredictDuration(time.Since(start))

	triggered := make([]entity.Label, 0, len(evaluations))
	for _, label := range results.Labels() {
		ev := evaluations[label]
		h.observer.ObservePrediction(label.String(), ev.Triggered)
		if ev.Triggered {
			triggered = append(triggered, label)
		}
	}

	respondSuccess(c, http.StatusOK, PredictResponse{
		Results:   evaluations,
		Triggered: triggered,
	})
}

func (h *PredictHandler) fail(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	h.observer.ObservePredictFailure(errResp.Code)

	fields := []zap.Field{
		zap.Error(err),
		zap.String("code", errResp.Code),
		zap.String("request_id", c.GetString(RequestIDKey)),
	}
	switch {
	case errResp.Code == CodeThresholdMisconfigured:
		h.logger.Error("Threshold configuration is broken", fields...)
	case errResp.StatusCode >= http.StatusInternalServerError:
		h.logger.Error("Prediction failed", fields...)
	default:
		h.logger.Info("Prediction rejected", fields...)
	}

	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}
