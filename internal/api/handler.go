package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-ambulance-dashboard/internal/dashboard"
	"github.com/mr1hm/go-ambulance-dashboard/internal/fleet"
	"github.com/mr1hm/go-ambulance-dashboard/internal/hospital"
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

type Handler struct {
	svc         *dashboard.Service
	broadcaster *fleet.Broadcaster
}

func NewHandler(svc *dashboard.Service, broadcaster *fleet.Broadcaster) *Handler {
	return &Handler{
		svc:         svc,
		broadcaster: broadcaster,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/dashboard", h.getDashboard)
	api.GET("/hospitals", h.getHospitals)
	api.GET("/hospitals/:id", h.getHospital)
	api.GET("/ambulances", h.getAmbulances)
	api.GET("/stats", h.getStats)
	api.GET("/map.geojson", h.getMap)
	api.GET("/fleet/stream", h.streamFleet)
	api.GET("/admin/report.xlsx", h.exportReport)

	view := api.Group("/view")
	view.GET("", h.getView)
	view.POST("/mode/toggle", h.toggleMode)
	view.PUT("/hospital/:id", h.selectHospital)
	view.PUT("/ambulance/:id", h.selectAmbulance)
	view.GET("/info-window", h.getInfoWindow)
	view.PUT("/info-window/:id", h.openInfoWindow)
	view.DELETE("/info-window", h.closeInfoWindow)

	r.GET("/ws/fleet", h.fleetWebSocket)
}

func (h *Handler) health(c *gin.Context) {
	dirState, _ := h.svc.DirectoryState()
	feedState := h.svc.Fleet().State

	status := "ok"
	if dirState == hospital.StateFailed || feedState == fleet.StateUnavailable {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"feed":      feedState,
		"directory": dirState,
	})
}

func (h *Handler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Snapshot(viewerID(c), locationOverride(c)))
}

// locationOverride reads optional lat/lng query parameters sent by browsers
// that have their own geolocation fix.
func locationOverride(c *gin.Context) *models.Coordinate {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil
	}
	return &models.Coordinate{Lat: lat, Lng: lng}
}

func (h *Handler) getHospitals(c *gin.Context) {
	state, err := h.svc.DirectoryState()
	if state == hospital.StateFailed {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "hospital directory unavailable",
			"cause": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":     state,
		"hospitals": h.svc.Hospitals(),
	})
}

func (h *Handler) getHospital(c *gin.Context) {
	hosp, ok := h.svc.Hospital(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "hospital not found"})
		return
	}
	c.JSON(http.StatusOK, hosp)
}

func (h *Handler) getAmbulances(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Fleet())
}

func (h *Handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats())
}

func (h *Handler) getMap(c *gin.Context) {
	fc := toGeoJSON(h.svc.Hospitals(), h.svc.Fleet().Ambulances)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}
