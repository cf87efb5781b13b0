package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// View routes are the only way the UI mutates view state. Ids are not
// checked against the current lists.

func (h *Handler) getView(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Controller(viewerID(c)).State())
}

func (h *Handler) toggleMode(c *gin.Context) {
	ctrl := h.svc.Controller(viewerID(c))
	ctrl.ToggleMode()
	c.JSON(http.StatusOK, ctrl.State())
}

func (h *Handler) selectHospital(c *gin.Context) {
	ctrl := h.svc.Controller(viewerID(c))
	ctrl.SelectHospital(c.Param("id"))
	c.JSON(http.StatusOK, ctrl.State())
}

func (h *Handler) selectAmbulance(c *gin.Context) {
	ctrl := h.svc.Controller(viewerID(c))
	ctrl.SelectAmbulance(c.Param("id"))
	c.JSON(http.StatusOK, ctrl.State())
}

func (h *Handler) openInfoWindow(c *gin.Context) {
	ctrl := h.svc.Controller(viewerID(c))
	ctrl.OpenInfoWindow(c.Param("id"))
	c.JSON(http.StatusOK, ctrl.State())
}

func (h *Handler) closeInfoWindow(c *gin.Context) {
	ctrl := h.svc.Controller(viewerID(c))
	ctrl.CloseInfoWindow()
	c.JSON(http.StatusOK, ctrl.State())
}

// getInfoWindow returns the ambulance shown in the open info window, or 204
// when none is open or the ambulance left the fleet.
func (h *Handler) getInfoWindow(c *gin.Context) {
	a, ok := h.svc.InfoWindow(viewerID(c))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       a.ID,
		"status":   a.Status,
		"caption":  a.Status.Caption(),
		"location": a.Location.String(),
	})
}
