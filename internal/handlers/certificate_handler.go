package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CertificateService is the interface that wraps methods for certificate access.
type CertificateService interface {
	// Method List retrieves the certificates visible to the principal.
	//
	// Instructors see certificates of the courses they teach, everybody else their own.
	List(ctx context.Context, principal models.Principal) ([]models.CertificateDetail, error)
	// Method Get retrieves a certificate visible to the principal.
	//
	// Certificates of other users are reported with an error wrapping models.ErrNotFound.
	Get(ctx context.Context, principal models.Principal, id int) (*models.CertificateDetail, error)
	// Method OpenFile opens the rendered artifact of a visible certificate.
	//
	// A certificate that is not rendered yet is reported with an error wrapping models.ErrNotFound.
	// The caller closes the returned file.
	OpenFile(ctx context.Context, principal models.Principal, id int) (*os.File, error)
}

// CertificateHandler handles HTTP requests for certificates
type CertificateHandler struct {
	BaseHandler
	service CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(svc CertificateService, logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all certificate handler routes
func (h *CertificateHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/certificates", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/file", h.Download)
	})
}

// List handles GET /certificates
// @Summary List certificates
// @Description Students see their own certificates, instructors those of the courses they teach
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.CertificateDetail
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /certificates [get]
func (h *CertificateHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	certificates, err := h.service.List(r.Context(), principal)
	if err != nil {
		h.RespondServiceError(w, err, "list certificates")
		return
	}

	h.RespondJSON(w, http.StatusOK, certificates)
}

// Get handles GET /certificates/{id}
// @Summary Get a certificate
// @Description Get a certificate visible to the caller
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Certificate ID"
// @Success 200 {object} models.CertificateDetail
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /certificates/{id} [get]
func (h *CertificateHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "certificate")
	if !ok {
		return
	}

	certificate, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		h.RespondServiceError(w, err, "get certificate")
		return
	}

	h.RespondJSON(w, http.StatusOK, certificate)
}

// Download handles GET /certificates/{id}/file
// @Summary Download a certificate
// @Description Download the rendered PNG of a certificate visible to the caller
// @Tags certificates
// @Produce png
// @Security ApiKeyAuth
// @Param id path int true "Certificate ID"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Certificate not found or not rendered yet"
// @Router /certificates/{id}/file [get]
func (h *CertificateHandler) Download(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "certificate")
	if !ok {
		return
	}

	file, err := h.service.OpenFile(r.Context(), principal, id)
	if err != nil {
		h.RespondServiceError(w, err, "open certificate file")
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		h.Logger.Error("failed to get file info", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get file info")
		return
	}

	filename := fmt.Sprintf("certificate_%d.png", id)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	http.ServeContent(w, r, filename, fileInfo.ModTime(), file)
}
