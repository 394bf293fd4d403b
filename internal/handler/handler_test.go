package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"techsat/internal/admin"
	"techsat/internal/auth"
	"techsat/internal/repository"
	"techsat/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{&repository.ValidationError{Field: "price", Reason: "must be >= 0"}, http.StatusBadRequest},
		{admin.ErrConfirmationRequired, http.StatusBadRequest},
		{admin.ErrNotEditing, http.StatusBadRequest},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{admin.ErrNotAuthenticated, http.StatusUnauthorized},
		{repository.ErrNotFound, http.StatusNotFound},
		{admin.ErrBusy, http.StatusConflict},
		{&repository.BackendError{Op: "list products", Err: errors.New("boom")}, http.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", repository.ErrNotFound), http.StatusNotFound},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), fmt.Sprint(tc.err))
	}
	assert.Equal(t, "backend unavailable", publicMessage(&repository.BackendError{Op: "x", Err: errors.New("password leaked")}))
}

type fakeCloud struct {
	publicID string
	body     []byte
	err      error
	deleted  string
}

func (f *fakeCloud) UploadImage(_ context.Context, file io.Reader, publicID string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.publicID = publicID
	f.body, _ = io.ReadAll(file)
	return "https://res.cloudinary.com/shop/image/upload/v1/techsat/products/" + publicID + ".jpg", "thumb", nil
}

func (f *fakeCloud) DeleteByURL(_ context.Context, url string) error {
	if url == "https://example.com/x.jpg" {
		return cloudinary.ErrForeignURL
	}
	f.deleted = url
	return f.err
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="box.jpg"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadRouter(cloud cloudinary.Client) *gin.Engine {
	h := NewUploadHandler(cloud, zap.NewNop())
	r := gin.New()
	r.POST("/upload", h.UploadProductImage)
	r.DELETE("/upload", h.DeleteProductImage)
	return r
}

func TestUploadProductImage(t *testing.T) {
	cloud := &fakeCloud{}
	r := uploadRouter(cloud)

	body, ct := multipartImage(t, "image/jpeg", []byte("jpegbytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), cloud.publicID)
	assert.Equal(t, "jpegbytes", string(cloud.body))
	assert.Regexp(t, `^img_[0-9a-f]{16}$`, cloud.publicID)

	body, ct = multipartImage(t, "application/pdf", []byte("%PDF"))
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/upload", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadProductImageFailure(t *testing.T) {
	r := uploadRouter(&fakeCloud{err: errors.New("cloudinary down")})
	body, ct := multipartImage(t, "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "cloudinary down")
}

func TestDeleteProductImage(t *testing.T) {
	cloud := &fakeCloud{}
	r := uploadRouter(cloud)

	del := func(payload string) int {
		req := httptest.NewRequest(http.MethodDelete, "/upload", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, del(`{"url":"https://res.cloudinary.com/shop/image/upload/v1/techsat/products/a.jpg"}`))
	assert.Equal(t, "https://res.cloudinary.com/shop/image/upload/v1/techsat/products/a.jpg", cloud.deleted)
	assert.Equal(t, http.StatusBadRequest, del(`{"url":"https://example.com/x.jpg"}`))
	assert.Equal(t, http.StatusBadRequest, del(`{}`))
}

func TestUploadDisabled(t *testing.T) {
	r := uploadRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
