package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	memberdomain "github.com/orgdesk/orgdesk/internal/member/domain"
)

type createMemberRequest struct {
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	IsAdmin        bool   `json:"is_admin"`
}

type updateMemberRequest struct {
	IsAdmin  *bool   `json:"is_admin"`
	DeptName *string `json:"dept_name"`
}

func (s *Server) CreateMember(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, err := snowflake.ParseString(req.OrganizationID)
	if err != nil || orgID == 0 {
		AbortWithError(c, newValidationError("organization_id", "invalid_id", "invalid organization id"))
		return
	}

	// The invitee may arrive as a user id or an email; the service
	// enforces that at least one is present.
	var userID snowflake.ID
	if req.UserID != "" {
		userID, err = snowflake.ParseString(req.UserID)
		if err != nil || userID == 0 {
			AbortWithError(c, newValidationError("user_id", "invalid_id", "invalid user id"))
			return
		}
	}

	member, err := s.members.Create(c.Request.Context(), memberdomain.CreateMemberRequest{
		OrganizationID: orgID,
		UserID:         userID,
		Email:          req.Email,
		RequestedBy:    caller,
		IsAdmin:        req.IsAdmin,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, member)
}

func (s *Server) GetMember(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	member, err := s.members.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, member)
}

// ListMembersForUser only answers for the authenticated user's own id.
func (s *Server) ListMembersForUser(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	userID, err := parseID(c.Param("userId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if userID != caller {
		AbortWithError(c, ErrForbidden)
		return
	}

	members, err := s.members.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, members)
}

func (s *Server) ListMembersForOrganization(c *gin.Context) {
	orgID, err := parseID(c.Param("orgId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	members, err := s.members.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, members)
}

func (s *Server) UpdateMember(c *gin.Context) {
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

	var req updateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.members.Update(c.Request.Context(), id, caller, memberdomain.UpdateMemberRequest{
		IsAdmin:  req.IsAdmin,
		DeptName: req.DeptName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, member)
}

func (s *Server) DeleteMember(c *gin.Context) {
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

	if err := s.members.Delete(c.Request.Context(), id, caller); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, deleteResult{Success: true})
}
