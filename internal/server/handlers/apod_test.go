package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/apodserver/internal/apod"
	"github.com/agentstation/apodserver/internal/route"
	"github.com/agentstation/apodserver/internal/server/cache"
	"github.com/agentstation/apodserver/pkg/errors"
)

type fakeSource struct {
	pictures    []apod.Picture
	listErr     error
	imageURL    string
	urlErr      error
	image       *apod.Image
	imageErr    error
	gotCount    int
	imageCalls  int
	requestedAt string
}

func (f *fakeSource) List(_ context.Context, count int) ([]apod.Picture, error) {
	f.gotCount = count
	return f.pictures, f.listErr
}

func (f *fakeSource) RandomImageURL(context.Context) (string, error) {
	return f.imageURL, f.urlErr
}

func (f *fakeSource) Image(_ context.Context, url string) (*apod.Image, error) {
	f.imageCalls++
	f.requestedAt = url
	return f.image, f.imageErr
}

func TestAPOD_List(t *testing.T) {
	src := &fakeSource{pictures: []apod.Picture{{
		Title:     "Galaxy Wars: M81 versus M82",
		HDURL:     "https://apod.nasa.gov/apod/image/0604/M81_M82_schedler_c80.jpg",
		Copyright: "Panther Observatory",
		Date:      "2006-04-15",
	}}}
	h := mount(t, NewAPOD(src, nil))

	w := do(h, http.MethodGet, "/apod/list/1", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, src.gotCount)
	assert.JSONEq(t, `{
		"data": [{
			"title": "Galaxy Wars: M81 versus M82",
			"explanation": "",
			"hdurl": "https://apod.nasa.gov/apod/image/0604/M81_M82_schedler_c80.jpg",
			"copyright": "Panther Observatory",
			"date": "2006-04-15"
		}],
		"error": null
	}`, w.Body.String())
}

func TestAPOD_List_NoCopyright(t *testing.T) {
	src := &fakeSource{pictures: []apod.Picture{{Title: "Public domain", Date: "2024-03-01"}}}
	h := mount(t, NewAPOD(src, nil))

	w := do(h, http.MethodGet, "/apod/list/1", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"data": [{"title": "Public domain", "explanation": "", "hdurl": "", "date": "2024-03-01"}],
		"error": null
	}`, w.Body.String())
}

func TestAPOD_List_InvalidCount(t *testing.T) {
	for _, count := range []string{"0", "-2", "101", "abc", "1.5"} {
		t.Run(count, func(t *testing.T) {
			src := &fakeSource{}
			h := mount(t, NewAPOD(src, nil))

			w := do(h, http.MethodGet, "/apod/list/"+count, "", "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"data":null,"error":"Invalid count."}`, w.Body.String())
			assert.Zero(t, src.gotCount, "upstream must not be called")
		})
	}
}

func TestAPOD_List_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"no data", errors.NotFound("No data found."), http.StatusNotFound, "No data found."},
		{"invalid format", &errors.Failure{Message: "Invalid response format."}, http.StatusInternalServerError, "Internal Server Error"},
		{"upstream status", errors.NewAPIError("apod", http.StatusServiceUnavailable, "Service Unavailable"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mount(t, NewAPOD(&fakeSource{listErr: tt.err}, nil))

			w := do(h, http.MethodGet, "/apod/list/3", "", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, `{"data":null,"error":"`+tt.wantMsg+`"}`, w.Body.String())
		})
	}
}

func TestAPOD_Image(t *testing.T) {
	src := &fakeSource{
		imageURL: "https://apod.nasa.gov/m81.jpg",
		image:    &apod.Image{ContentType: "image/jpeg", Body: []byte{0xff, 0xd8}},
	}
	images := cache.New[*apod.Image](time.Minute, time.Minute)
	h := mount(t, NewAPOD(src, images))

	for i := 0; i < 3; i++ {
		w := do(h, http.MethodGet, "/apod/image", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, []byte{0xff, 0xd8}, w.Body.Bytes())
	}

	assert.Equal(t, 1, src.imageCalls, "image bytes are cached by URL")
	assert.Equal(t, "https://apod.nasa.gov/m81.jpg", src.requestedAt)
	assert.EqualValues(t, 2, images.GetStats().Hits)
}

func TestAPOD_Image_NoCache(t *testing.T) {
	src := &fakeSource{
		imageURL: "https://apod.nasa.gov/m81.jpg",
		image:    &apod.Image{ContentType: "image/png", Body: []byte("png")},
	}
	h := mount(t, NewAPOD(src, nil))

	do(h, http.MethodGet, "/apod/image", "", "")
	do(h, http.MethodGet, "/apod/image", "", "")

	assert.Equal(t, 2, src.imageCalls)
}

func TestAPOD_Image_Failures(t *testing.T) {
	tests := []struct {
		name       string
		src        *fakeSource
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "no entries",
			src:        &fakeSource{urlErr: errors.NotFound("No data found.")},
			wantStatus: http.StatusNotFound,
			wantMsg:    "No data found.",
		},
		{
			name: "image fetch fails",
			src: &fakeSource{
				imageURL: "https://apod.nasa.gov/gone.jpg",
				imageErr: errors.NewAPIError("apod-images", http.StatusNotFound, "Not Found"),
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := cache.New[*apod.Image](time.Minute, time.Minute)
			h := mount(t, NewAPOD(tt.src, images))

			w := do(h, http.MethodGet, "/apod/image", "", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"data":null,"error":"`+tt.wantMsg+`"}`, w.Body.String())
			assert.Zero(t, images.ItemCount(), "failures are not cached")
		})
	}
}

func TestAPOD_RequiresSource(t *testing.T) {
	r, err := route.NewRouter(gin.New(), nil)
	require.NoError(t, err)

	err = route.Mount(r, NewAPOD(nil, nil))
	assert.True(t, errors.IsConfigurationError(err))
}
