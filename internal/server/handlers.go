package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stylerack/stylerack/pkg/catalog"
	"github.com/stylerack/stylerack/pkg/constants"
	"github.com/stylerack/stylerack/pkg/errors"
)

// productView is the wire shape of one product, with image paths resolved
// to public URLs.
type productView struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Price   int      `json:"price"`
	Display string   `json:"display_price"`
	Styles  []string `json:"styles"`
	Tags    []string `json:"tags"`
	Seasons []string `json:"seasons"`
	Scenes  []string `json:"scenes"`
	Images  []string `json:"images"`
}

func (s *Server) viewOf(p *catalog.Product) productView {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, s.app.Gateway().FileURL(img.RemotePath))
	}
	return productView{
		ID:      p.ID,
		Name:    p.Name,
		Price:   p.Price,
		Display: p.DisplayPrice(),
		Styles:  p.Styles,
		Tags:    p.Tags,
		Seasons: p.Seasons,
		Scenes:  p.Scenes,
		Images:  images,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"products": s.app.Catalog().Len(),
		"uptime":   time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleListProducts filters the catalog by repeatable facet query
// parameters, e.g. /api/products?season=夏&style=休闲&style=运动.
// Values within one facet are alternatives; facets combine conjunctively.
func (s *Server) handleListProducts(c *gin.Context) {
	filter := catalog.NewFilter()
	for _, f := range catalog.Facets() {
		for _, value := range c.QueryArray(string(f)) {
			filter.Toggle(f, value)
		}
	}

	products := filter.Apply(s.app.Catalog().Products())
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, s.viewOf(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    s.app.Catalog().Len(),
		"matched":  len(views),
		"products": views,
	})
}

func (s *Server) handleGetProduct(c *gin.Context) {
	p, err := s.app.Catalog().FindByID(c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.viewOf(p))
}

func (s *Server) handleFacets(c *gin.Context) {
	all := s.app.Pool().All()
	payload := make(gin.H, len(all))
	for f, values := range all {
		payload[string(f)] = values
	}
	c.JSON(http.StatusOK, payload)
}

// handleRefresh rebuilds the catalog from a fresh remote listing.
// Concurrent requests share one listing call.
func (s *Server) handleRefresh(c *gin.Context) {
	_, err, shared := s.refreshGroup.Do("refresh", func() (any, error) {
		return nil, s.app.Refresh(c.Request.Context())
	})
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": s.app.Catalog().Len(),
		"shared":   shared,
	})
}

// renderError maps domain errors onto HTTP statuses.
func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.IsTokenError(err):
		status = http.StatusUnauthorized
	case errors.IsHostUnavailable(err), errors.IsTimeout(err):
		status = http.StatusBadGateway
	}

	msg := err.Error()
	if len(msg) > constants.MaxStatusMessageLength {
		msg = strings.ToValidUTF8(msg[:constants.MaxStatusMessageLength], "")
	}
	c.JSON(status, gin.H{"error": msg})
}
