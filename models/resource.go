package models

import (
	"fmt"
	"strings"
	"time"
)

// ResourceType, paylaşılan akademik kaynağın türü.
type ResourceType string

const (
	ResourceBook          ResourceType = "book"
	ResourceNotes         ResourceType = "notes"
	ResourceResearchPaper ResourceType = "research_paper"
	ResourceThesis        ResourceType = "thesis"
	ResourceJournal       ResourceType = "journal"
	ResourceOther         ResourceType = "other"
)

// ResourceFormat, kaynağın fiziksel mi dijital mi olduğu.
type ResourceFormat string

const (
	FormatPhysical ResourceFormat = "physical"
	FormatDigital  ResourceFormat = "digital"
	FormatBoth     ResourceFormat = "both"
)

// LicenseType, dijital kaynaklar için lisans durumu.
type LicenseType string

const (
	LicenseAuthor   LicenseType = "author"   // Yükleyen eserin sahibi
	LicenseLicensed LicenseType = "licensed" // Yükleyen lisans belgesine sahip
)

// ResourceStatus, kaynağın marketplace'teki durumu.
type ResourceStatus string

const (
	StatusAvailable   ResourceStatus = "available"
	StatusRented      ResourceStatus = "rented"
	StatusSold        ResourceStatus = "sold"
	StatusUnavailable ResourceStatus = "unavailable"
)

// RentPeriod, kiralama süresi sınırları (gün cinsinden).
type RentPeriod struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Value int `json:"value"`
}

// ShippingInfo, fiziksel kaynaklar için kargo bilgisi.
type ShippingInfo struct {
	FreeShipping  bool   `json:"freeShipping"`
	EstimatedDays string `json:"estimatedDays"`
	ReturnPolicy  string `json:"returnPolicy"`
}

// Resource, marketplace'te listelenen tek bir akademik kaynağı temsil eder.
//
// Tags, image URL listeleri ve Specifications SQLite'ta JSON-encoded TEXT
// kolonlarında saklanır — repository katmanı marshal/unmarshal eder.
type Resource struct {
	ID               string            `json:"id"`
	UploaderID       string            `json:"uploader_id"`
	Uploader         *User             `json:"uploader,omitempty"` // JOIN ile doldurulur
	ResourceType     ResourceType      `json:"resourceType"`
	Author           string            `json:"author"`
	Title            string            `json:"title"`
	Format           ResourceFormat    `json:"format"`
	License          *LicenseType      `json:"license,omitempty"`
	LicenseFiles     []string          `json:"-"` // API'ye gönderilmez (select: false eşdeğeri)
	Description      string            `json:"description,omitempty"`
	ShortDescription string            `json:"shortDescription"`
	CoverImageURLs   []string          `json:"coverImageURL"`
	ResourceImages   []string          `json:"resourceImageURLs"`
	Tags             []string          `json:"tags"`
	Specifications   map[string]string `json:"specifications"`
	Stock            int               `json:"stock"`
	Rating           float64           `json:"rating"`
	RentPrice        float64           `json:"rentPrice"`
	SellPrice        float64           `json:"sellPrice"`
	RentPeriod       RentPeriod        `json:"rentPeriod"`
	Shipping         ShippingInfo      `json:"shippingInfo"`
	Status           ResourceStatus    `json:"status"`
	IsActive         bool              `json:"isActive"`
	Views            int               `json:"views"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// validResourceTypes / validFormats — enum kontrolü için lookup set'leri.
var validResourceTypes = map[ResourceType]bool{
	ResourceBook: true, ResourceNotes: true, ResourceResearchPaper: true,
	ResourceThesis: true, ResourceJournal: true, ResourceOther: true,
}

var validFormats = map[ResourceFormat]bool{
	FormatPhysical: true, FormatDigital: true, FormatBoth: true,
}

// CreateResourceRequest, kaynak yükleme formundan gelen veri.
// Dosyalar (kapak, görseller, lisans belgesi) handler'da multipart'tan
// okunup upload service ile kaydedilir; buraya URL'leri yazılır.
type CreateResourceRequest struct {
	ResourceType     ResourceType      `json:"resourceType"`
	Author           string            `json:"author"`
	Title            string            `json:"title"`
	Format           ResourceFormat    `json:"format"`
	License          *LicenseType      `json:"license"`
	LicenseFiles     []string          `json:"-"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"shortDescription"`
	CoverImageURLs   []string          `json:"-"`
	ResourceImages   []string          `json:"-"`
	Tags             []string          `json:"tags"`
	Specifications   map[string]string `json:"specifications"`
	Stock            int               `json:"stock"`
	RentPrice        float64           `json:"rentPrice"`
	SellPrice        float64           `json:"sellPrice"`
	RentPeriod       RentPeriod        `json:"rentPeriod"`
	Shipping         ShippingInfo      `json:"shippingInfo"`
}

// Validate, CreateResourceRequest'in geçerli olup olmadığını kontrol eder.
//
// Koşullu zorunluluklar orijinal şemadan gelir:
//   - license: format digital veya both ise zorunlu
//   - licenseFile: license == "licensed" ise zorunlu
//   - stock: format physical veya both ise > 0 olmalı
//   - rentPrice veya sellPrice'tan en az biri > 0 olmalı
func (r *CreateResourceRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	r.Author = strings.TrimSpace(r.Author)
	if r.Author == "" {
		return fmt.Errorf("author is required")
	}
	if strings.TrimSpace(r.ShortDescription) == "" {
		return fmt.Errorf("short description is required")
	}

	if !validResourceTypes[r.ResourceType] {
		return fmt.Errorf("invalid resource type: %s", r.ResourceType)
	}
	if !validFormats[r.Format] {
		return fmt.Errorf("invalid format: %s", r.Format)
	}

	if r.Format == FormatDigital || r.Format == FormatBoth {
		if r.License == nil {
			return fmt.Errorf("license is required for digital resources")
		}
		if *r.License != LicenseAuthor && *r.License != LicenseLicensed {
			return fmt.Errorf("invalid license: %s", *r.License)
		}
		if *r.License == LicenseLicensed && len(r.LicenseFiles) == 0 {
			return fmt.Errorf("license file is required for licensed resources")
		}
	}

	if (r.Format == FormatPhysical || r.Format == FormatBoth) && r.Stock <= 0 {
		return fmt.Errorf("stock is required for physical resources")
	}

	if r.RentPrice < 0 || r.SellPrice < 0 {
		return fmt.Errorf("prices cannot be negative")
	}
	if r.RentPrice == 0 && r.SellPrice == 0 {
		return fmt.Errorf("either rent price or sell price must be greater than 0")
	}

	// Boş rent period için makul varsayılanlar (orijinal şema default'ları).
	if r.RentPeriod.Min == 0 {
		r.RentPeriod.Min = 7
	}
	if r.RentPeriod.Max == 0 {
		r.RentPeriod.Max = 90
	}
	if r.RentPeriod.Value == 0 {
		r.RentPeriod.Value = 30
	}
	if r.Shipping.EstimatedDays == "" {
		r.Shipping.EstimatedDays = "3-5 days"
	}
	if r.Shipping.ReturnPolicy == "" {
		r.Shipping.ReturnPolicy = "7 days return policy"
	}

	return nil
}
