package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	orgdomain "github.com/orgdesk/orgdesk/internal/organization/domain"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
}

type updateOrganizationRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.organizations.Create(c.Request.Context(), caller, orgdomain.CreateOrganizationRequest{Name: req.Name})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, result)
}

func (s *Server) GetOrganization(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	org, err := s.organizations.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, org)
}

func (s *Server) ListOrganizationsForUser(c *gin.Context) {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgs, err := s.organizations.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, orgs)
}

func (s *Server) UpdateOrganization(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	org, err := s.organizations.Update(c.Request.Context(), id, caller, orgdomain.UpdateOrganizationRequest{Name: req.Name})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, org)
}

func (s *Server) DeleteOrganization(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.organizations.Delete(c.Request.Context(), id, caller); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, deleteResult{Success: true})
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, newValidationError("id", "invalid_id", "invalid identifier")
	}
	return id, nil
}
