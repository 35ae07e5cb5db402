package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/apodserver/internal/apod"
	"github.com/agentstation/apodserver/internal/route"
	"github.com/agentstation/apodserver/internal/server/cache"
	"github.com/agentstation/apodserver/internal/server/response"
	"github.com/agentstation/apodserver/pkg/constants"
	"github.com/agentstation/apodserver/pkg/errors"
	"github.com/agentstation/apodserver/pkg/logging"
)

// PictureSource is the part of the APOD client the module needs.
type PictureSource interface {
	List(ctx context.Context, count int) ([]apod.Picture, error)
	RandomImageURL(ctx context.Context) (string, error)
	Image(ctx context.Context, url string) (*apod.Image, error)
}

// APOD proxies NASA's Astronomy Picture of the Day API.
type APOD struct {
	source PictureSource
	images *cache.Cache[*apod.Image]
}

// NewAPOD creates the module. images may be nil to disable caching.
func NewAPOD(source PictureSource, images *cache.Cache[*apod.Image]) *APOD {
	return &APOD{source: source, images: images}
}

// Prefix implements route.Module.
func (a *APOD) Prefix() string { return "/apod" }

// Init implements route.Module.
func (a *APOD) Init(g *route.Group) error {
	if a.source == nil {
		return errors.NewConfigurationError("apod module", "picture source is required", nil)
	}
	g.GET("/list/:count", a.list)
	g.GET("/image", a.image)
	return nil
}

// list handles GET /apod/list/:count.
// @Summary List random pictures
// @Description Fetches count random APOD entries
// @Tags apod
// @Produce json
// @Param count path integer true "Number of entries (1-100)"
// @Success 200 {object} response.Response{data=[]apod.Picture}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /apod/list/{count} [get].
func (a *APOD) list(c *gin.Context) error {
	count, err := strconv.Atoi(route.Param(c, "count"))
	if err != nil || count < 1 || count > constants.MaxAPODCount {
		return errors.BadRequest("Invalid count.")
	}

	ctx := logging.WithModule(c.Request.Context(), a.Prefix())
	pictures, err := a.source.List(ctx, count)
	if err != nil {
		return err
	}

	response.OK(c.Writer, pictures)
	return nil
}

// image handles GET /apod/image.
// @Summary Random picture
// @Description Streams the image of one random APOD entry
// @Tags apod
// @Produce image/jpeg
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /apod/image [get].
func (a *APOD) image(c *gin.Context) error {
	ctx := logging.WithModule(c.Request.Context(), a.Prefix())

	url, err := a.source.RandomImageURL(ctx)
	if err != nil {
		return err
	}

	load := func() (*apod.Image, error) { return a.source.Image(ctx, url) }

	var img *apod.Image
	if a.images != nil {
		img, err = a.images.GetOrLoad(url, load)
	} else {
		img, err = load()
	}
	if err != nil {
		return err
	}

	response.Binary(c.Writer, img.ContentType, img.Body)
	return nil
}
