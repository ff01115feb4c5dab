package advice

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinscore/clinscore/internal/domain/survey"
	"github.com/clinscore/clinscore/internal/platform/auth"
	"github.com/clinscore/clinscore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the advice endpoints. All of them require an
// authenticated user; advice history is private to its owner.
func (h *Handler) RegisterRoutes(protected *echo.Group) {
	protected.POST("/surveys/:code/advice", h.RequestAdvice)
	protected.GET("/ai/advice", h.ListAdvice)
}

type adviceRequest struct {
	Answers map[string]any `json:"answers"`
	Text    string         `json:"text,omitempty"`
}

func (h *Handler) RequestAdvice(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req adviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Answers == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "answers are required")
	}

	result, err := h.svc.RequestAdvice(c.Request().Context(), userID, c.Param("code"), req.Answers, req.Text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) ListAdvice(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)

	results, total, err := h.svc.ListAdvice(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(results, total, pg.Limit, pg.Offset))
}

func requestUserID(c echo.Context) (uuid.UUID, error) {
	uid := auth.UserIDFromContext(c.Request().Context())
	parsed, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return parsed, nil
}

func toHTTPError(err error) error {
	if errors.Is(err, ErrAdviceUnavailable) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, map[string]string{
			"kind":    "advice_unavailable",
			"message": "the advisory subsystem is unavailable; the survey result remains valid",
		})
	}

	var se *survey.Error
	if errors.As(err, &se) {
		status := http.StatusInternalServerError
		switch se.Kind {
		case survey.KindNotFound:
			status = http.StatusNotFound
		case survey.KindValidation:
			status = http.StatusBadRequest
		case survey.KindUnknownQuestion, survey.KindScoringRuleMissing, survey.KindNoBandMatch:
			status = http.StatusUnprocessableEntity
		}
		return echo.NewHTTPError(status, map[string]string{
			"kind":    string(se.Kind),
			"message": se.Message,
		})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
