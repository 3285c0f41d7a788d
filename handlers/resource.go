package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/services"
)

// ResourceHandler, kaynak listeleme/görüntüleme/yükleme endpoint'leri.
type ResourceHandler struct {
	resourceService services.ResourceService
	uploadService   services.UploadService
}

// NewResourceHandler, constructor.
func NewResourceHandler(resourceService services.ResourceService, uploadService services.UploadService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		uploadService:   uploadService,
	}
}

// List godoc
// GET /api/resources?type=book
// Public endpoint — giriş yapmadan da kaynaklar gezilebilir.
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	resourceType := models.ResourceType(r.URL.Query().Get("type"))

	resources, err := h.resourceService.GetAll(r.Context(), resourceType)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resources)
}

// Get godoc
// GET /api/resources/{id}
// Public endpoint. Her çağrı görüntülenme sayacını artırır.
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	resource, err := h.resourceService.GetByID(r.Context(), id)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resource)
}

// Upload godoc
// POST /api/resources/upload-resource
// Session middleware gerektirir. Content-Type: multipart/form-data.
//
// Form yapısı:
//   - Düz alanlar: resourceType, author, title, format, license,
//     description, shortDescription, stock, rentPrice, sellPrice
//   - JSON-encoded alanlar: tags, specifications, rentPeriod, shippingInfo
//   - Dosyalar: coverImage (çoklu), resourceImages (çoklu), licenseFile
func (h *ResourceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	// 32MB form belleği — görseller + lisans belgesi birlikte gelebilir.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req, err := parseResourceForm(r)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	// Dosyaları kaydet — URL'ler request'e yazılır, DB'ye URL gider.
	if headers := r.MultipartForm.File["coverImage"]; len(headers) > 0 {
		urls, err := h.uploadService.SaveAll(headers)
		if err != nil {
			pkg.Error(w, err)
			return
		}
		req.CoverImageURLs = urls
	}
	if headers := r.MultipartForm.File["resourceImages"]; len(headers) > 0 {
		urls, err := h.uploadService.SaveAll(headers)
		if err != nil {
			pkg.Error(w, err)
			return
		}
		req.ResourceImages = urls
	}
	if headers := r.MultipartForm.File["licenseFile"]; len(headers) > 0 {
		urls, err := h.uploadService.SaveAll(headers)
		if err != nil {
			pkg.Error(w, err)
			return
		}
		req.LicenseFiles = urls
	}

	resource, err := h.resourceService.Create(r.Context(), snapshot.ID, req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, resource)
}

// ─── Private Helpers ───

// parseResourceForm, multipart form field'larını CreateResourceRequest'e çevirir.
// Sayısal alanlarda parse hatası bad request'tir; JSON alanlar boşsa atlanır.
func parseResourceForm(r *http.Request) (*models.CreateResourceRequest, error) {
	req := &models.CreateResourceRequest{
		ResourceType:     models.ResourceType(r.FormValue("resourceType")),
		Author:           r.FormValue("author"),
		Title:            r.FormValue("title"),
		Format:           models.ResourceFormat(r.FormValue("format")),
		Description:      r.FormValue("description"),
		ShortDescription: r.FormValue("shortDescription"),
	}

	if v := r.FormValue("license"); v != "" {
		license := models.LicenseType(v)
		req.License = &license
	}

	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return nil, errBadField("stock")
		}
		req.Stock = stock
	}
	if v := r.FormValue("rentPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errBadField("rentPrice")
		}
		req.RentPrice = price
	}
	if v := r.FormValue("sellPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errBadField("sellPrice")
		}
		req.SellPrice = price
	}

	if v := r.FormValue("tags"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Tags); err != nil {
			return nil, errBadField("tags")
		}
	}
	if v := r.FormValue("specifications"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Specifications); err != nil {
			return nil, errBadField("specifications")
		}
	}
	if v := r.FormValue("rentPeriod"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.RentPeriod); err != nil {
			return nil, errBadField("rentPeriod")
		}
	}
	if v := r.FormValue("shippingInfo"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Shipping); err != nil {
			return nil, errBadField("shippingInfo")
		}
	}

	return req, nil
}

type fieldError string

func (e fieldError) Error() string { return "invalid value for field: " + string(e) }

func errBadField(name string) error { return fieldError(name) }
