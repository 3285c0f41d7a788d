package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateResource() CreateResourceRequest {
	return CreateResourceRequest{
		ResourceType:     ResourceBook,
		Author:           "Author Name",
		Title:            "A Title",
		Format:           FormatPhysical,
		ShortDescription: "short",
		Stock:            1,
		SellPrice:        10,
	}
}

func TestCreateResourceRequestValidate(t *testing.T) {
	req := validCreateResource()
	require.NoError(t, req.Validate())

	licensed := LicenseLicensed
	author := LicenseAuthor
	bogus := LicenseType("bogus")

	tests := []struct {
		name   string
		mutate func(*CreateResourceRequest)
	}{
		{"missing title", func(r *CreateResourceRequest) { r.Title = "  " }},
		{"missing author", func(r *CreateResourceRequest) { r.Author = "" }},
		{"missing short description", func(r *CreateResourceRequest) { r.ShortDescription = " " }},
		{"invalid type", func(r *CreateResourceRequest) { r.ResourceType = "magazine" }},
		{"invalid format", func(r *CreateResourceRequest) { r.Format = "holographic" }},
		{"digital without license", func(r *CreateResourceRequest) { r.Format = FormatDigital }},
		{"digital with bogus license", func(r *CreateResourceRequest) {
			r.Format = FormatDigital
			r.License = &bogus
		}},
		{"licensed without license file", func(r *CreateResourceRequest) {
			r.Format = FormatDigital
			r.License = &licensed
		}},
		{"physical without stock", func(r *CreateResourceRequest) { r.Stock = 0 }},
		{"negative price", func(r *CreateResourceRequest) { r.SellPrice = -1 }},
		{"no price at all", func(r *CreateResourceRequest) {
			r.RentPrice = 0
			r.SellPrice = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateResource()
			tt.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}

	// author lisansı dosya gerektirmez.
	digital := validCreateResource()
	digital.Format = FormatDigital
	digital.Stock = 0
	digital.License = &author
	assert.NoError(t, digital.Validate())

	// licensed + dosya geçerli.
	withFile := validCreateResource()
	withFile.Format = FormatDigital
	withFile.Stock = 0
	withFile.License = &licensed
	withFile.LicenseFiles = []string{"/api/uploads/lic.pdf"}
	assert.NoError(t, withFile.Validate())
}

func TestCreateResourceRequestDefaults(t *testing.T) {
	req := validCreateResource()
	require.NoError(t, req.Validate())

	assert.Equal(t, 7, req.RentPeriod.Min)
	assert.Equal(t, 90, req.RentPeriod.Max)
	assert.Equal(t, 30, req.RentPeriod.Value)
	assert.Equal(t, "3-5 days", req.Shipping.EstimatedDays)
	assert.Equal(t, "7 days return policy", req.Shipping.ReturnPolicy)

	// Dolu gelen değerler ezilmez.
	custom := validCreateResource()
	custom.RentPeriod = RentPeriod{Min: 1, Max: 10, Value: 5}
	custom.Shipping.EstimatedDays = "1 day"
	require.NoError(t, custom.Validate())
	assert.Equal(t, 5, custom.RentPeriod.Value)
	assert.Equal(t, "1 day", custom.Shipping.EstimatedDays)
}
