package httptransport

//go:generate mockgen -source=handlers_catalog.go -destination=mocks/catalog-mocks.go -package=mocks CatalogService

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sprout/internal/milestone"
	"sprout/internal/transport/http/mocks"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	"sprout/pkg/testutil"
)

type CatalogHandlerSuite struct {
	suite.Suite

	service *mocks.MockCatalogService
	router  chi.Router
}

func TestCatalogHandlerSuite(t *testing.T) {
	suite.Run(t, new(CatalogHandlerSuite))
}

func (s *CatalogHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockCatalogService(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	NewCatalogHandler(s.service, logger).Register(s.router)
}

func (s *CatalogHandlerSuite) TestList() {
	defs := []*milestone.Definition{
		{ID: id.NewMilestoneID(), Name: "Social smile", MinMonths: 1, MaxMonths: 3},
		{ID: id.NewMilestoneID(), Name: "Rolls over", MinMonths: 4, MaxMonths: 6},
	}
	s.service.EXPECT().List(gomock.Any()).Return(defs, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/catalog/milestones")
	req = testutil.WithActor(req, id.NewActorID(), id.RoleCaregiver)

	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusOK, rr.Code)

	var resp struct {
		Milestones []*milestone.Definition `json:"milestones"`
	}
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Len(resp.Milestones, 2)
}

func (s *CatalogHandlerSuite) TestCreate() {
	s.Run("admin creates a definition", func() {
		def := &milestone.Definition{ID: id.NewMilestoneID(), Name: "Walks alone", MinMonths: 11, MaxMonths: 16}
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).Return(def, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/catalog/milestones", map[string]any{
			"name":       "Walks alone",
			"min_months": 11,
			"max_months": 16,
		})
		req = testutil.WithActor(req, id.NewActorID(), id.RoleAdmin)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusCreated, rr.Code)
	})

	s.Run("invalid window is rejected", func() {
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvalidInput, "min_months must not exceed max_months"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/catalog/milestones", map[string]any{
			"name":       "Backwards window",
			"min_months": 6,
			"max_months": 4,
		})
		req = testutil.WithActor(req, id.NewActorID(), id.RoleAdmin)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("non-admins cannot write the catalog", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/catalog/milestones", map[string]any{
			"name": "Nope",
		})
		req = testutil.WithActor(req, id.NewActorID(), id.RoleHealthWorker)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})
}

func (s *CatalogHandlerSuite) TestGet() {
	milestoneID := id.NewMilestoneID()
	s.service.EXPECT().Get(gomock.Any(), milestoneID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "milestone not found"))

	req := testutil.NewRequest(s.T(), http.MethodGet, "/catalog/milestones/"+milestoneID.String())
	req = testutil.WithActor(req, id.NewActorID(), id.RoleCaregiver)

	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusNotFound, rr.Code)
}
