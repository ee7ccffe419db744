// Package handlers contains the HTTP boundary. Handlers parse the request,
// resolve the authenticated owner, call one service operation, and shape the
// response. No business rules live here.
package handlers

import (
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/middleware"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/leafkeeper/leafkeeper/internal/types"
)

// ownerID returns the authenticated user id placed in Locals by the auth
// middleware. A missing id means the route was mounted without AuthUser.
func ownerID(c *fiber.Ctx) (string, error) {
	id, _ := c.Locals(middleware.UserIDKey).(string)
	if id == "" {
		return "", types.Forbidden("authentication required")
	}
	return id, nil
}

// uploadFromHeader opens a multipart file as a service Upload. The returned
// closer must be called after the service consumed the content stream.
func uploadFromHeader(fh *multipart.FileHeader) (*services.Upload, func(), error) {
	file, err := fh.Open()
	if err != nil {
		return nil, nil, types.Validation("could not read uploaded file")
	}
	upload := &services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     file,
	}
	return upload, func() { file.Close() }, nil
}

// formUploads collects every file under the given multipart field name.
func formUploads(c *fiber.Ctx, field string) ([]services.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, types.Validation("request must be multipart/form-data")
	}

	headers := form.File[field]
	uploads := make([]services.Upload, 0, len(headers))
	closers := make([]func(), 0, len(headers))
	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	for _, fh := range headers {
		u, closer, err := uploadFromHeader(fh)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		uploads = append(uploads, *u)
		closers = append(closers, closer)
	}
	return uploads, closeAll, nil
}

// plantInputFromForm reads the writable plant fields from a multipart form.
func plantInputFromForm(c *fiber.Ctx) (services.PlantInput, error) {
	in := services.PlantInput{
		ScientificName:    c.FormValue("scientificName"),
		CommonName:        c.FormValue("commonName"),
		PersonalName:      c.FormValue("personalName"),
		Location:          c.FormValue("location"),
		WateringFrequency: c.FormValue("wateringFrequency"),
		Light:             c.FormValue("light"),
		Drainage:          c.FormValue("drainage"),
		Notes:             c.FormValue("notes"),
	}

	if raw := c.FormValue("acquisitionDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return in, types.Validation("acquisitionDate must be YYYY-MM-DD")
		}
		in.AcquisitionDate = &t
	}
	return in, nil
}
