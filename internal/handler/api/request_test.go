//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"equipment-rental/internal/domain/user"
	"equipment-rental/internal/handler/api"
	resdto "equipment-rental/internal/handler/dto/response"
	"equipment-rental/internal/usecase/commands"
	"equipment-rental/internal/usecase/queries"
	"equipment-rental/tests/common/builder"
	"equipment-rental/tests/common/httptest"
	"equipment-rental/tests/common/testutil"
	commandsmock "equipment-rental/tests/mock/commands"
	queriesmock "equipment-rental/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RequestHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRequestCommands
	mockQueries  *queriesmock.MockRequestQueries
	handler      *api.RequestHandler
	actorID      uuid.UUID
	actorRole    user.Role
}

func (s *RequestHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRequestCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockRequestQueries(s.mockCtrl)
	s.handler = api.NewRequestHandler(s.mockCommands, s.mockQueries)

	s.actorID = uuid.New()
	s.actorRole = user.RoleEmployee

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", s.actorRole)
		c.Next()
	}

	// Setup routes
	s.router.POST("/requests", authMiddleware, s.handler.Create)
	s.router.GET("/requests/my", authMiddleware, s.handler.ListMy)
	s.router.GET("/requests/:id", authMiddleware, s.handler.Get)
	s.router.GET("/requests/admin/all", authMiddleware, s.handler.ListAll)
	s.router.POST("/requests/admin/:id/approve", authMiddleware, s.handler.Approve)
	s.router.POST("/requests/admin/:id/reject", authMiddleware, s.handler.Reject)
}

func (s *RequestHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRequestHandlerSuite(t *testing.T) {
	suite.Run(t, new(RequestHandlerTestSuite))
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *RequestHandlerTestSuite) TestCreate() {
	url := "/requests"

	reqBody := builder.NewRequestBuilder().BuildCreateRequestDTO()

	s.Run("creates a request", func() {
		expected := &commands.CreateRequestResult{RequestID: uuid.New()}
		s.mockCommands.EXPECT().CreateRequest(gomock.Any(), s.actorID, gomock.Any()).
			Return(expected, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var response resdto.CreateRequestResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &response)
		s.Equal(expected.RequestID, response.RequestID)
		s.Equal("Equipment request submitted", response.Message)
	})

	s.Run("requires authentication", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("validation", func() {
		cases := []struct {
			name       string
			mutate     func(m map[string]any)
			expectCode int
		}{
			{name: "missing items", mutate: testutil.Field("items", nil), expectCode: http.StatusBadRequest},
			{name: "empty items", mutate: testutil.Field("items", []any{}), expectCode: http.StatusBadRequest},
			{name: "zero quantity", mutate: testutil.Field("items", []map[string]any{
				{"equipmentId": uuid.New().String(), "quantity": 0},
			}), expectCode: http.StatusBadRequest},
			{name: "negative quantity", mutate: testutil.Field("items", []map[string]any{
				{"equipmentId": uuid.New().String(), "quantity": -1},
			}), expectCode: http.StatusBadRequest},
			{name: "missing equipment id", mutate: testutil.Field("items", []map[string]any{
				{"quantity": 1},
			}), expectCode: http.StatusBadRequest},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, c.mutate)
				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
				s.Equal(c.expectCode, w.Code, w.Body.String())
			})
		}
	})

	s.Run("usecase errors", func() {
		cases := []struct {
			name       string
			ucErr      error
			expectCode int
		}{
			{name: "equipment not found", ucErr: commands.ErrEquipmentNotFoundWrite, expectCode: http.StatusNotFound},
			{name: "requester not found", ucErr: commands.ErrRequesterNotFound, expectCode: http.StatusNotFound},
			{name: "requester inactive", ucErr: commands.ErrRequesterInactive, expectCode: http.StatusForbidden},
			{name: "equipment unavailable", ucErr: commands.ErrEquipmentUnavailable, expectCode: http.StatusBadRequest},
			{name: "unexpected error", ucErr: errors.New("boom"), expectCode: http.StatusInternalServerError},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				s.mockCommands.EXPECT().CreateRequest(gomock.Any(), s.actorID, gomock.Any()).
					Return(nil, c.ucErr)

				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
				s.Equal(c.expectCode, w.Code, w.Body.String())
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *RequestHandlerTestSuite) TestGet() {
	s.Run("returns own request", func() {
		view := builder.NewRequestBuilder().WithUserID(s.actorID).BuildView()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, false, view.ID).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/"+view.ID.String(), nil, "token")

		var response resdto.RequestResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
		s.Equal(view.UserID, response.UserID)
		s.Equal("PENDING", response.Status)
		s.Len(response.Items, 1)
	})

	s.Run("admin flag is passed through", func() {
		s.actorRole = user.RoleAdmin
		defer func() { s.actorRole = user.RoleEmployee }()

		view := builder.NewRequestBuilder().BuildView()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, true, view.ID).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/"+view.ID.String(), nil, "token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("foreign request is denied", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, false, id).
			Return(nil, queries.ErrRequestAccess)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/"+id.String(), nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "Access denied")
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, false, id).
			Return(nil, queries.ErrRequestNotFound)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/"+id.String(), nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "Request not found")
	})

	s.Run("invalid id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/not-a-uuid", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request ID")
	})
}

// ================================================================================
// TestListMy / TestListAll
// ================================================================================

func (s *RequestHandlerTestSuite) TestListMy() {
	s.Run("returns caller's requests", func() {
		views := []*queries.RequestView{
			builder.NewRequestBuilder().WithUserID(s.actorID).BuildView(),
			builder.NewRequestBuilder().WithUserID(s.actorID).WithStatus("APPROVED").BuildView(),
		}
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.actorID).Return(views, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/my", nil, "token")

		var response []resdto.RequestResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &response)
		s.Len(response, 2)
	})

	s.Run("empty list", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.actorID).Return(nil, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/my", nil, "token")

		var response []resdto.RequestResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &response)
		s.Empty(response)
	})
}

func (s *RequestHandlerTestSuite) TestListAll() {
	s.Run("without status filter", func() {
		s.mockQueries.EXPECT().ListAll(gomock.Any(), gomock.Nil()).
			Return([]*queries.RequestView{builder.NewRequestBuilder().BuildView()}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/admin/all", nil, "token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("with status filter", func() {
		pending := "PENDING"
		s.mockQueries.EXPECT().ListAll(gomock.Any(), &pending).
			Return([]*queries.RequestView{builder.NewRequestBuilder().BuildView()}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/admin/all?status=PENDING", nil, "token")
		s.Equal(http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("invalid status filter", func() {
		bogus := "CANCELLED"
		s.mockQueries.EXPECT().ListAll(gomock.Any(), &bogus).
			Return(nil, queries.ErrInvalidStatusFilter)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/requests/admin/all?status=CANCELLED", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid status filter")
	})
}

// ================================================================================
// TestApprove / TestReject
// ================================================================================

func (s *RequestHandlerTestSuite) TestApprove() {
	requestID := uuid.New()
	url := "/requests/admin/" + requestID.String() + "/approve"

	s.Run("approves", func() {
		s.mockCommands.EXPECT().ApproveRequest(gomock.Any(), requestID).Return(nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		s.Equal(http.StatusNoContent, w.Code, w.Body.String())
	})

	s.Run("process errors", func() {
		cases := []struct {
			name       string
			ucErr      error
			expectCode int
			expectMsg  string
		}{
			{name: "request not found", ucErr: commands.ErrRequestNotFoundWrite, expectCode: http.StatusNotFound, expectMsg: "Request not found"},
			{name: "already processed", ucErr: commands.ErrRequestAlreadyProcessed, expectCode: http.StatusConflict, expectMsg: "already been processed"},
			{name: "insufficient stock", ucErr: commands.ErrInsufficientStock, expectCode: http.StatusConflict, expectMsg: "Insufficient stock"},
			{name: "stock conflict", ucErr: commands.ErrStockConflict, expectCode: http.StatusConflict, expectMsg: "concurrently"},
			{name: "equipment gone", ucErr: commands.ErrEquipmentNotFoundWrite, expectCode: http.StatusNotFound, expectMsg: "Equipment not found"},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				s.mockCommands.EXPECT().ApproveRequest(gomock.Any(), requestID).Return(c.ucErr)

				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
				httptest.AssertErrorResponse(s.T(), w, c.expectCode, c.expectMsg)
			})
		}
	})

	s.Run("invalid id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/requests/admin/nope/approve", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request ID")
	})
}

func (s *RequestHandlerTestSuite) TestReject() {
	requestID := uuid.New()
	url := "/requests/admin/" + requestID.String() + "/reject"

	s.Run("rejects with reason", func() {
		s.mockCommands.EXPECT().RejectRequest(gomock.Any(), requestID, "out of budget").Return(nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"reason": "out of budget"}, "token")
		s.Equal(http.StatusNoContent, w.Code, w.Body.String())
	})

	s.Run("missing reason", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Reject reason required")
	})

	s.Run("whitespace reason rejected by usecase", func() {
		s.mockCommands.EXPECT().RejectRequest(gomock.Any(), requestID, "   ").
			Return(commands.ErrEmptyRejectReason)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"reason": "   "}, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Reject reason required")
	})

	s.Run("already processed", func() {
		s.mockCommands.EXPECT().RejectRequest(gomock.Any(), requestID, "late").
			Return(commands.ErrRequestAlreadyProcessed)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"reason": "late"}, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "already been processed")
	})
}
