package handler

import (
	"embed"
	"html/template"
	"net/http"

	"croncommander/commons/error_handler"
	"croncommander/commons/handler"
	"croncommander/internal/auth"
	"croncommander/internal/domain"
	"croncommander/internal/logger"
	"croncommander/internal/service"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplateName is the template rendered by PageHandler
const PageTemplateName = "cron_commander"

// PageData is what the admin page template sees
type PageData struct {
	Table       service.Table
	Token       string
	ToggleURL   string
	TokenHeader string
}

// PageHandler serves the HTML admin page
type PageHandler struct {
	presenter *service.Presenter
	gate      *service.ToggleGate
	toggleURL string
	logger    logger.Logger
}

func NewPageHandler(presenter *service.Presenter, gate *service.ToggleGate, toggleURL string, log logger.Logger) *PageHandler {
	return &PageHandler{
		presenter: presenter,
		gate:      gate,
		toggleURL: toggleURL,
		logger:    log.With(logger.String("component", "page_handler")),
	}
}

// Templates parses the embedded page templates for gin's HTML renderer
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Render writes the admin page for the authenticated caller
func (h *PageHandler) Render(c *gin.Context) {
	ctx := c.Request.Context()
	caller := auth.CallerFromContext(ctx)
	if !caller.Can(auth.CapabilityManageOptions) {
		handler.SendErrorResponse(c, errorCollectionFor(domain.ErrUnauthorized))
		return
	}

	query := map[string]string{"locale": c.Query("locale")}
	headers := map[string]string{"Accept-Language": c.GetHeader("Accept-Language")}

	table, err := h.presenter.View(ctx, "", requestLocales(query, headers)...)
	if err != nil {
		handler.SendErrorResponse(c, errorCollectionFor(err))
		return
	}

	token, err := h.gate.IssueToken(ctx, caller)
	if err != nil {
		h.logger.WithContext(ctx).Error("failed to issue token", logger.Error(err))
		handler.SendErrorResponse(c, error_handler.NewErrorCollection().
			AddError(error_handler.CodeInternalServerError, MessageInternal, nil))
		return
	}

	c.HTML(http.StatusOK, PageTemplateName, PageData{
		Table:       table,
		Token:       token,
		ToggleURL:   h.toggleURL,
		TokenHeader: TokenHeader,
	})
}
