package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"resource-board/internal/app"
	"resource-board/internal/transport/http/middleware"
	"resource-board/internal/transport/http/response"
)

type ResourceHandler struct {
	resourceService *app.ResourceService
	log             logrus.FieldLogger
}

// ResourceRequest has no owner field: any postedBy a client sends is dropped
// during binding.
type ResourceRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	ContactInfo  string `json:"contactInfo"`
	Availability string `json:"availability"`
}

type ResourcePatchRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	Location     *string `json:"location"`
	ContactInfo  *string `json:"contactInfo"`
	Availability *string `json:"availability"`
}

func NewResourceHandler(resourceService *app.ResourceService, log logrus.FieldLogger) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService, log: log}
}

func (h *ResourceHandler) List(c *gin.Context) {
	resources, err := h.resourceService.List(c.Request.Context(), app.ListInput{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		writeError(c, h.log, err, "list resources failed")
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{
		"count":     len(resources),
		"resources": toResourceViews(resources),
	})
}

func (h *ResourceHandler) Mine(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	resources, err := h.resourceService.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.log, err, "list own resources failed")
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{
		"count":     len(resources),
		"resources": toResourceViews(resources),
	})
}

func (h *ResourceHandler) Get(c *gin.Context) {
	resource, err := h.resourceService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err, "get resource failed")
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{"resource": toResourceView(resource)})
}

func (h *ResourceHandler) Create(c *gin.Context) {
	var req ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}
	userID, _ := middleware.UserID(c)

	resource, err := h.resourceService.Create(c.Request.Context(), userID, app.ResourceInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		ContactInfo:  req.ContactInfo,
		Availability: req.Availability,
	})
	if err != nil {
		writeError(c, h.log, err, "create resource failed")
		return
	}

	response.OK(c, http.StatusCreated, "Resource created successfully", gin.H{"resource": toResourceView(resource)})
}

func (h *ResourceHandler) Update(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	var req ResourcePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Existence and ownership still answer before the payload does.
		if err := h.resourceService.CheckOwner(c.Request.Context(), userID, c.Param("id")); err != nil {
			h.writeUpdateError(c, err)
			return
		}
		bindError(c)
		return
	}

	resource, err := h.resourceService.Update(c.Request.Context(), userID, c.Param("id"), app.ResourcePatch{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		ContactInfo:  req.ContactInfo,
		Availability: req.Availability,
	})
	if err != nil {
		h.writeUpdateError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Resource updated successfully", gin.H{"resource": toResourceView(resource)})
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.resourceService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, app.ErrForbidden) {
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "Not authorized to delete this resource")
			return
		}
		writeError(c, h.log, err, "delete resource failed")
		return
	}

	response.OK(c, http.StatusOK, "Resource deleted successfully", nil)
}

func (h *ResourceHandler) writeUpdateError(c *gin.Context, err error) {
	if errors.Is(err, app.ErrForbidden) {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Not authorized to update this resource")
		return
	}
	writeError(c, h.log, err, "update resource failed")
}
