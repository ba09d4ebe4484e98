package api

import (
	"net/http"

	"github.com/abhisek/fido/internal/workitem"
	"github.com/gin-gonic/gin"
)

func (s *Server) listWorkItems(c *gin.Context) {
	items, err := s.deps.WorkItems.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) logWorkItem(c *gin.Context) {
	var item workitem.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	item.UserID = c.Param("id")

	logged, err := s.deps.WorkItems.Log(c.Request.Context(), item)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, logged)
}

func (s *Server) updateWorkItem(c *gin.Context) {
	var patch workitem.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updated, err := s.deps.WorkItems.Update(c.Request.Context(), c.Param("id"), c.Param("itemID"), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) dashboard(c *gin.Context) {
	d, err := s.deps.WorkItems.Dashboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
