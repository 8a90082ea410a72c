package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"shortlink/internal/domain"
	"shortlink/internal/service"
	"shortlink/internal/validation"
)

// ownerHeader carries the pre-authenticated account id. Authentication
// itself happens upstream; the handler only requires the header's presence.
const ownerHeader = "X-Owner-ID"

var (
	errInvalidBody     = map[string]string{"error": "invalid request body"}
	errURLRequired     = map[string]string{"error": "url is required"}
	errInvalidURL      = map[string]string{"error": "invalid url format"}
	errUnsafeURL       = map[string]string{"error": "url protocol not allowed"}
	errURLTooLong      = map[string]string{"error": "url exceeds maximum length"}
	errPrivateIP       = map[string]string{"error": "private ip addresses not allowed"}
	errLinkNotFound    = map[string]string{"error": "link not found"}
	errLinkExpired     = map[string]string{"error": "link expired"}
	errSlugTaken       = map[string]string{"error": "slug already taken"}
	errInvalidLinkID   = map[string]string{"error": "invalid link id"}
	errOwnerRequired   = map[string]string{"error": "owner id required"}
	errCreateFailed    = map[string]string{"error": "failed to create link"}
	errListFailed      = map[string]string{"error": "failed to list links"}
	errUpdateFailed    = map[string]string{"error": "failed to update link"}
	errDeleteFailed    = map[string]string{"error": "failed to delete link"}
	errRedirectFailed  = map[string]string{"error": "internal server error"}
	errAnalyticsFailed = map[string]string{"error": "failed to get analytics"}
	respHealthOK       = map[string]string{"status": "ok"}
)

type Handler struct {
	redirects    RedirectService
	links        LinkService
	analytics    AnalyticsService
	userAgents   UserAgentParser
	urlValidator URLValidator
	logger       *slog.Logger
}

func New(
	redirects RedirectService,
	links LinkService,
	analytics AnalyticsService,
	userAgents UserAgentParser,
	urlValidator URLValidator,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		redirects:    redirects,
		links:        links,
		analytics:    analytics,
		userAgents:   userAgents,
		urlValidator: urlValidator,
		logger:       logger,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/health", h.Health)
	api.POST("/links", h.CreateLink)
	api.GET("/links", h.ListLinks)
	api.PATCH("/links/:id", h.UpdateLink)
	api.DELETE("/links/:id", h.DeleteLink)
	api.GET("/links/:slug/analytics", h.LinkAnalytics)
	e.GET("/:slug", h.Redirect)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, respHealthOK)
}

// Redirect serves the short-link hot path. The request context (clock read,
// referrer, parsed user agent) is assembled once here, so the same instant
// drives both the expiry check and the analytics day bucket.
func (h *Handler) Redirect(c echo.Context) error {
	req := c.Request()
	visit := domain.Visit{
		Now:       time.Now(),
		Referrer:  req.Referer(),
		UserAgent: h.userAgents.ParseUserAgent(req.UserAgent()),
	}

	outcome, err := h.redirects.HandleRedirect(req.Context(), c.Param("slug"), visit)
	if err != nil {
		h.logger.Error("redirect failed",
			slog.String("slug", c.Param("slug")),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errRedirectFailed)
	}

	switch outcome.Status {
	case domain.RedirectFound:
		return c.Redirect(http.StatusFound, outcome.TargetURL)
	case domain.RedirectExpired:
		return c.JSON(http.StatusGone, errLinkExpired)
	default:
		return c.JSON(http.StatusNotFound, errLinkNotFound)
	}
}

func (h *Handler) CreateLink(c echo.Context) error {
	ownerID, err := ownerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errOwnerRequired)
	}

	var req domain.CreateLinkRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, errInvalidBody)
	}

	if err := h.urlValidator.ValidateURL(req.OriginalURL); err != nil {
		return h.handleURLValidationError(c, err)
	}

	resp, err := h.links.Create(c.Request().Context(), ownerID, req)
	if err != nil {
		return h.handleLinkError(c, err, errCreateFailed, "failed to create link")
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListLinks(c echo.Context) error {
	ownerID, err := ownerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errOwnerRequired)
	}

	links, err := h.links.List(c.Request().Context(), ownerID, c.QueryParam("search"))
	if err != nil {
		h.logger.Error("failed to list links", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errListFailed)
	}

	return c.JSON(http.StatusOK, domain.ListLinksResponse{Links: links})
}

func (h *Handler) UpdateLink(c echo.Context) error {
	ownerID, err := ownerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errOwnerRequired)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errInvalidLinkID)
	}

	var req domain.UpdateLinkRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, errInvalidBody)
	}

	if req.OriginalURL != "" {
		if err := h.urlValidator.ValidateURL(req.OriginalURL); err != nil {
			return h.handleURLValidationError(c, err)
		}
	}

	link, err := h.links.Update(c.Request().Context(), ownerID, id, req)
	if err != nil {
		return h.handleLinkError(c, err, errUpdateFailed, "failed to update link")
	}

	return c.JSON(http.StatusOK, link)
}

func (h *Handler) DeleteLink(c echo.Context) error {
	ownerID, err := ownerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errOwnerRequired)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errInvalidLinkID)
	}

	if err := h.links.Delete(c.Request().Context(), ownerID, id); err != nil {
		return h.handleLinkError(c, err, errDeleteFailed, "failed to delete link")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) LinkAnalytics(c echo.Context) error {
	ownerID, err := ownerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errOwnerRequired)
	}

	report, err := h.analytics.LinkAnalytics(c.Request().Context(), ownerID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, errLinkNotFound)
		}
		h.logger.Error("failed to get analytics",
			slog.String("slug", c.Param("slug")),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errAnalyticsFailed)
	}

	return c.JSON(http.StatusOK, report)
}

func ownerID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Request().Header.Get(ownerHeader), 10, 64)
}

func (h *Handler) handleURLValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, validation.ErrEmptyURL):
		return c.JSON(http.StatusBadRequest, errURLRequired)
	case errors.Is(err, validation.ErrUnsafeProtocol):
		return c.JSON(http.StatusBadRequest, errUnsafeURL)
	case errors.Is(err, validation.ErrURLTooLong):
		return c.JSON(http.StatusBadRequest, errURLTooLong)
	case errors.Is(err, validation.ErrPrivateIPNotAllowed):
		return c.JSON(http.StatusBadRequest, errPrivateIP)
	default:
		return c.JSON(http.StatusBadRequest, errInvalidURL)
	}
}

func (h *Handler) handleLinkError(c echo.Context, err error, fallback map[string]string, logMsg string) error {
	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		return c.JSON(http.StatusNotFound, errLinkNotFound)
	case errors.Is(err, service.ErrSlugTaken):
		return c.JSON(http.StatusConflict, errSlugTaken)
	case errors.Is(err, validation.ErrExpiryInPast),
		errors.Is(err, validation.ErrMaxClicksInvalid),
		errors.Is(err, validation.ErrSlugTooShort),
		errors.Is(err, validation.ErrSlugTooLong),
		errors.Is(err, validation.ErrSlugInvalidChars):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.logger.Error(logMsg, slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, fallback)
	}
}
