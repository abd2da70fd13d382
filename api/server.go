package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sree-9523/RedBus/storage"
)

// Server exposes read-only queries over the bus_routes table for the
// reporting layer. It never writes.
type Server struct {
	store storage.RouteReader
	log   zerolog.Logger
}

// NewServer creates a Server over the given reader.
func NewServer(store storage.RouteReader, log zerolog.Logger) *Server {
	return &Server{store: store, log: log}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", s.health)
	r.GET("/routes", s.listRoutes)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listRoutes serves GET /routes with the dashboard's filter set:
// ?route=&busname=&bustype= (repeatable), min_rating, min_price, max_price,
// from=YYYY-MM-DD, to=YYYY-MM-DD (departure-date range, inclusive).
func (s *Server) listRoutes(c *gin.Context) {
	filter := storage.RouteFilter{
		RouteNames: c.QueryArray("route"),
		Operators:  c.QueryArray("busname"),
		BusTypes:   c.QueryArray("bustype"),
	}

	if raw := c.Query("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_rating must be numeric"})
			return
		}
		filter.MinRating = v
	}
	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_price must be numeric"})
			return
		}
		filter.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_price must be numeric"})
			return
		}
		filter.MaxPrice = &v
	}
	if raw := c.Query("from"); raw != "" {
		v, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		filter.DepartFrom = &v
	}
	if raw := c.Query("to"); raw != "" {
		v, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		end := v.AddDate(0, 0, 1)
		filter.DepartTo = &end
	}

	records, err := s.store.FetchRoutes(c.Request.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch routes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(records), "data": records})
}
