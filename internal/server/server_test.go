package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/orgdesk/orgdesk/internal/config"
	memberdomain "github.com/orgdesk/orgdesk/internal/member/domain"
	"github.com/orgdesk/orgdesk/internal/metrics"
	orgdomain "github.com/orgdesk/orgdesk/internal/organization/domain"
	"github.com/orgdesk/orgdesk/internal/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret"

type fakeOrgService struct {
	err          error
	org          *orgdomain.Organization
	result       *orgdomain.CreateOrganizationResult
	list         []orgdomain.Organization
	lastCaller   snowflake.ID
	lastName     string
	deleteCalled bool
}

func (f *fakeOrgService) Create(ctx context.Context, creatorUserID snowflake.ID, req orgdomain.CreateOrganizationRequest) (*orgdomain.CreateOrganizationResult, error) {
	f.lastCaller = creatorUserID
	f.lastName = req.Name
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeOrgService) GetByID(ctx context.Context, id snowflake.ID) (*orgdomain.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.org, nil
}

func (f *fakeOrgService) ListByUser(ctx context.Context, userID snowflake.ID) ([]orgdomain.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeOrgService) Update(ctx context.Context, id, requestingUserID snowflake.ID, req orgdomain.UpdateOrganizationRequest) (*orgdomain.Organization, error) {
	f.lastCaller = requestingUserID
	f.lastName = req.Name
	if f.err != nil {
		return nil, f.err
	}
	return f.org, nil
}

func (f *fakeOrgService) Delete(ctx context.Context, id, requestingUserID snowflake.ID) error {
	f.lastCaller = requestingUserID
	f.deleteCalled = true
	return f.err
}

type fakeMemberService struct {
	err     error
	member  *memberdomain.Member
	listErr error
	listed  []memberdomain.MemberWithOrganization
	lastReq memberdomain.CreateMemberRequest
}

func (f *fakeMemberService) Create(ctx context.Context, req memberdomain.CreateMemberRequest) (*memberdomain.Member, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.member, nil
}

func (f *fakeMemberService) GetByID(ctx context.Context, id snowflake.ID) (*memberdomain.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.member, nil
}

func (f *fakeMemberService) ListByUser(ctx context.Context, userID snowflake.ID) ([]memberdomain.MemberWithOrganization, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeMemberService) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]memberdomain.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeMemberService) Update(ctx context.Context, id, requestingUserID snowflake.ID, req memberdomain.UpdateMemberRequest) (*memberdomain.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.member, nil
}

func (f *fakeMemberService) Delete(ctx context.Context, id, requestingUserID snowflake.ID) error {
	return f.err
}

func newTestServer(t *testing.T, cfg config.Config, orgs orgdomain.Service, members memberdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg.AuthJWTSecret == "" {
		cfg.AuthJWTSecret = testJWTSecret
	}
	verifier, err := token.NewVerifier(cfg)
	require.NoError(t, err)

	engine := NewEngine(cfg, zap.NewNop(), metrics.NewHTTPMetricsWith(prometheus.NewRegistry()))
	registerRoutes(NewServer(ServerParams{
		Engine:        engine,
		Verifier:      verifier,
		Organizations: orgs,
		Members:       members,
	}))
	return engine
}

func bearerFor(t *testing.T, userID int64) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + raw
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestCreateOrganizationRequiresToken(t *testing.T) {
	engine := newTestServer(t, config.Config{}, &fakeOrgService{}, &fakeMemberService{})

	rec := doRequest(t, engine, http.MethodPost, "/api/organization", "", gin.H{"name": "Acme"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", decodeError(t, rec).Type)
}

func TestCreateOrganizationRejectsBadToken(t *testing.T) {
	engine := newTestServer(t, config.Config{}, &fakeOrgService{}, &fakeMemberService{})

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 7}).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	rec := doRequest(t, engine, http.MethodPost, "/api/organization", "Bearer "+raw, gin.H{"name": "Acme"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrganizationEnvelope(t *testing.T) {
	orgs := &fakeOrgService{
		result: &orgdomain.CreateOrganizationResult{
			Organization: orgdomain.Organization{ID: snowflake.ID(100), Name: "Acme"},
			Member:       memberdomain.Member{ID: snowflake.ID(200), OrganizationID: snowflake.ID(100), UserID: snowflake.ID(7), IsAdmin: true},
		},
	}
	engine := newTestServer(t, config.Config{}, orgs, &fakeMemberService{})

	rec := doRequest(t, engine, http.MethodPost, "/api/organization", bearerFor(t, 7), gin.H{"name": "Acme"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, snowflake.ID(7), orgs.lastCaller)
	require.Equal(t, "Acme", orgs.lastName)

	var resp struct {
		OK     bool `json:"ok"`
		Result struct {
			Organization orgdomain.Organization `json:"organization"`
			Member       memberdomain.Member    `json:"member"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.Equal(t, "Acme", resp.Result.Organization.Name)
	require.True(t, resp.Result.Member.IsAdmin)
}

func TestGetOrganizationInvalidID(t *testing.T) {
	engine := newTestServer(t, config.Config{}, &fakeOrgService{}, &fakeMemberService{})

	rec := doRequest(t, engine, http.MethodGet, "/api/organization/not-a-number", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation_error", decodeError(t, rec).Type)
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"organization not found", orgdomain.ErrNotFound, http.StatusNotFound},
		{"requester not a member", orgdomain.ErrNotMember, http.StatusForbidden},
		{"requester not an admin", orgdomain.ErrNotAdmin, http.StatusForbidden},
		{"empty name", orgdomain.ErrInvalidName, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestServer(t, config.Config{}, &fakeOrgService{err: tc.err}, &fakeMemberService{})

			rec := doRequest(t, engine, http.MethodPut, "/api/organization/123", bearerFor(t, 7), gin.H{"name": "X"})
			require.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestCreateMemberErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"organization missing", memberdomain.ErrOrganizationNotFound, http.StatusNotFound},
		{"inviter not a member", memberdomain.ErrInviterNotMember, http.StatusForbidden},
		{"inviter not an admin", memberdomain.ErrInviterNotAdmin, http.StatusForbidden},
		{"unknown email", memberdomain.ErrUserEmailNotFound, http.StatusBadRequest},
		{"already a member", memberdomain.ErrAlreadyMember, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestServer(t, config.Config{}, &fakeOrgService{}, &fakeMemberService{err: tc.err})

			rec := doRequest(t, engine, http.MethodPost, "/api/member", bearerFor(t, 7), gin.H{
				"organization_id": "123",
				"user_id":         "456",
			})
			require.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestCreateMemberCarriesCaller(t *testing.T) {
	members := &fakeMemberService{member: &memberdomain.Member{ID: snowflake.ID(1)}}
	engine := newTestServer(t, config.Config{}, &fakeOrgService{}, members)

	rec := doRequest(t, engine, http.MethodPost, "/api/member", bearerFor(t, 7), gin.H{
		"organization_id": "123",
		"email":           "bob@example.com",
		"is_admin":        true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, snowflake.ID(7), members.lastReq.RequestedBy)
	require.Equal(t, snowflake.ID(123), members.lastReq.OrganizationID)
	require.Equal(t, "bob@example.com", members.lastReq.Email)
	require.True(t, members.lastReq.IsAdmin)
}

func TestListMembersForUserSelfOnly(t *testing.T) {
	engine := newTestServer(t, config.Config{}, &fakeOrgService{}, &fakeMemberService{})

	rec := doRequest(t, engine, http.MethodGet, "/api/member/user/7", bearerFor(t, 7), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Another user's memberships are off limits even with a valid token.
	rec = doRequest(t, engine, http.MethodGet, "/api/member/user/8", bearerFor(t, 7), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, engine, http.MethodGet, "/api/member/user/7", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServiceSecretGate(t *testing.T) {
	cfg := config.Config{ServiceSecret: "sekrit"}
	orgs := &fakeOrgService{org: &orgdomain.Organization{ID: snowflake.ID(123), Name: "Acme"}}
	engine := newTestServer(t, cfg, orgs, &fakeMemberService{})

	// Probes stay open.
	rec := doRequest(t, engine, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, engine, http.MethodGet, "/api/organization/123", "", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/organization/123", nil)
	req.Header.Set(headerServiceSecret, "sekrit")
	gated := httptest.NewRecorder()
	engine.ServeHTTP(gated, req)
	require.Equal(t, http.StatusOK, gated.Code)
}

func TestUnknownServiceErrorStaysOpaque(t *testing.T) {
	engine := newTestServer(t, config.Config{}, &fakeOrgService{err: context.DeadlineExceeded}, &fakeMemberService{})

	rec := doRequest(t, engine, http.MethodGet, "/api/organization/123", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "internal server error", decodeError(t, rec).Message)
}
