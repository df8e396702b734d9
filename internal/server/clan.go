package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	clandomain "github.com/smallbiznis/clans/internal/clan/domain"
)

const (
	msgCreateFailed  = "Failed to create clan"
	msgGetFailed     = "Failed to get clan"
	msgListFailed    = "Failed to get clans"
	msgUpdateFailed  = "Failed to update clan"
	msgDisbandFailed = "Failed to disband clan"
)

type createClanRequest struct {
	Name        string  `json:"name"`
	Tag         string  `json:"tag"`
	Description *string `json:"description"`
	Owner       int64   `json:"owner"`
	JoinMethod  string  `json:"join_method"`
}

// clanResponse renders clan_id as a JSON number; snowflake.ID would quote it.
type clanResponse struct {
	ClanID      int64     `json:"clan_id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag"`
	Description *string   `json:"description"`
	Owner       int64     `json:"owner"`
	JoinMethod  string    `json:"join_method"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newClanResponse(clan *clandomain.Clan) clanResponse {
	return clanResponse{
		ClanID:      clan.ID.Int64(),
		Name:        clan.Name,
		Tag:         clan.Tag,
		Description: clan.Description,
		Owner:       clan.Owner,
		JoinMethod:  string(clan.JoinMethod),
		Status:      string(clan.Status),
		CreatedAt:   clan.CreatedAt,
		UpdatedAt:   clan.UpdatedAt,
	}
}

func (s *Server) CreateClan(c *gin.Context) {
	var req createClanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, failed(msgCreateFailed, ErrInvalidRequest))
		return
	}

	clan, err := s.clanSvc.Create(c.Request.Context(), clandomain.CreateRequest{
		Name:        req.Name,
		Tag:         req.Tag,
		Description: req.Description,
		Owner:       req.Owner,
		JoinMethod:  clandomain.JoinMethod(strings.TrimSpace(req.JoinMethod)),
	})
	if err != nil {
		AbortWithError(c, failed(msgCreateFailed, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newClanResponse(clan)})
}

func (s *Server) ListClans(c *gin.Context) {
	clans, err := s.clanSvc.FetchAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, failed(msgListFailed, err))
		return
	}

	resp := make([]clanResponse, 0, len(clans))
	for i := range clans {
		resp = append(resp, newClanResponse(&clans[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClanByID(c *gin.Context) {
	id, err := parseClanID(c)
	if err != nil {
		AbortWithError(c, failed(msgGetFailed, err))
		return
	}

	clan, err := s.clanSvc.FetchOne(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, failed(msgGetFailed, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newClanResponse(clan)})
}

func (s *Server) UpdateClan(c *gin.Context) {
	id, err := parseClanID(c)
	if err != nil {
		AbortWithError(c, failed(msgUpdateFailed, err))
		return
	}

	var req clandomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, failed(msgUpdateFailed, ErrInvalidRequest))
		return
	}

	clan, err := s.clanSvc.PartialUpdate(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, failed(msgUpdateFailed, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newClanResponse(clan)})
}

func (s *Server) DisbandClan(c *gin.Context) {
	id, err := parseClanID(c)
	if err != nil {
		AbortWithError(c, failed(msgDisbandFailed, err))
		return
	}

	clan, err := s.clanSvc.Disband(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, failed(msgDisbandFailed, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newClanResponse(clan)})
}

func parseClanID(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return 0, clandomain.ErrInvalidID
	}
	return id, nil
}
