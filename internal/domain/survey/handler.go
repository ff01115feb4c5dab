package survey

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinscore/clinscore/internal/platform/auth"
	"github.com/clinscore/clinscore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the survey endpoints. Template reads and stateless
// calculation are public; submissions require an authenticated user.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/surveys/templates", h.ListTemplates)
	public.GET("/surveys/templates/:code", h.GetTemplate)
	public.POST("/surveys/:code/calculate", h.Calculate)

	protected.POST("/surveys/responses", h.SubmitResponse)
	protected.GET("/surveys/responses", h.ListResponses)
	protected.GET("/surveys/responses/:id", h.GetResponse)
}

func (h *Handler) ListTemplates(c echo.Context) error {
	summaries, err := h.svc.ListTemplates(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"templates": summaries})
}

func (h *Handler) GetTemplate(c echo.Context) error {
	t, err := h.svc.GetTemplateByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, t)
}

type calculateRequest struct {
	Answers map[string]any `json:"answers"`
}

func (h *Handler) Calculate(c echo.Context) error {
	var req calculateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Answers == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "answers are required")
	}

	result, err := h.svc.Calculate(c.Request().Context(), c.Param("code"), req.Answers)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

type submitRequest struct {
	TemplateID uuid.UUID      `json:"template_id"`
	Answers    map[string]any `json:"answers"`
}

func (h *Handler) SubmitResponse(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Answers == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "answers are required")
	}

	resp, err := h.svc.SubmitResponse(c.Request().Context(), userID, req.TemplateID, req.Answers)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetResponse(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	resp, err := h.svc.GetResponse(c.Request().Context(), userID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListResponses(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)

	responses, total, err := h.svc.ListResponses(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(responses, total, pg.Limit, pg.Offset))
}

func requestUserID(c echo.Context) (uuid.UUID, error) {
	uid := auth.UserIDFromContext(c.Request().Context())
	parsed, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return parsed, nil
}

// toHTTPError maps domain error kinds to transport statuses. Validation
// problems are caller mistakes (400), defensive engine failures indicate a
// malformed template or answer set (422).
func toHTTPError(err error) error {
	var se *Error
	if errors.As(err, &se) {
		status := http.StatusInternalServerError
		switch se.Kind {
		case KindNotFound:
			status = http.StatusNotFound
		case KindValidation:
			status = http.StatusBadRequest
		case KindUnknownQuestion, KindScoringRuleMissing, KindNoBandMatch:
			status = http.StatusUnprocessableEntity
		}
		return echo.NewHTTPError(status, map[string]string{
			"kind":    string(se.Kind),
			"message": se.Message,
		})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
