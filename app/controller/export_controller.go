package controller

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"brickvault/listsync"
	"brickvault/service"
)

// ExportController handles the printable collection sheet
type ExportController struct {
	*Renderer
	export *service.ExportService
}

// NewExportController creates a new ExportController
func NewExportController(renderer *Renderer, export *service.ExportService) *ExportController {
	return &ExportController{Renderer: renderer, export: export}
}

// HTML handles GET /collection/export?sort=...
func (c *ExportController) HTML(w http.ResponseWriter, r *http.Request) {
	_, auth, r := apiContext(r)
	html, err := c.export.HTML(r.Context(), auth.User.Username, listsync.ParseSort(r.URL.Query().Get("sort")))
	if err != nil {
		c.fail(w, r, "ExportHTML", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// PDF handles GET /collection/export.pdf?sort=...
func (c *ExportController) PDF(w http.ResponseWriter, r *http.Request) {
	zap.S().Infof("📥 ExportPDF: Received %s request to %s", r.Method, r.URL.Path)
	_, auth, r := apiContext(r)
	pdf, err := c.export.PDF(r.Context(), auth.User.Username, listsync.ParseSort(r.URL.Query().Get("sort")))
	if err != nil {
		c.fail(w, r, "ExportPDF", err)
		return
	}

	filename := fmt.Sprintf("brickvault-%s-%s.pdf", auth.User.Username, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(pdf)))
	w.Write(pdf)
}
