package httptransport

//go:generate mockgen -source=handlers_caseload.go -destination=mocks/caseload-mocks.go -package=mocks CaseloadService

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sprout/internal/caseload"
	"sprout/internal/progress"
	"sprout/internal/transport/http/mocks"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	"sprout/pkg/testutil"
)

type CaseloadHandlerSuite struct {
	suite.Suite

	service *mocks.MockCaseloadService
	router  chi.Router

	workerID id.ActorID
}

func TestCaseloadHandlerSuite(t *testing.T) {
	suite.Run(t, new(CaseloadHandlerSuite))
}

func (s *CaseloadHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockCaseloadService(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	NewCaseloadHandler(s.service, logger).Register(s.router)

	s.workerID = id.NewActorID()
}

func (s *CaseloadHandlerSuite) TestProgress() {
	childID := id.NewChildID()
	path := "/children/" + childID.String() + "/progress"

	s.Run("caregiver reads the progress list", func() {
		items := []caseload.Item{
			{Status: progress.StatusDue, Color: progress.ColorCaution},
			{Status: progress.StatusUpcoming, Color: progress.ColorNeutral},
		}
		s.service.EXPECT().Progress(gomock.Any(), childID).Return(items, nil)

		req := testutil.NewRequest(s.T(), http.MethodGet, path)
		req = testutil.WithActor(req, id.NewActorID(), id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code)

		var resp struct {
			Items []caseload.Item `json:"items"`
		}
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
		s.Len(resp.Items, 2)
		s.Equal(progress.StatusDue, resp.Items[0].Status)
	})

	s.Run("foreign child returns 403", func() {
		s.service.EXPECT().Progress(gomock.Any(), childID).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "child belongs to another caregiver"))

		req := testutil.NewRequest(s.T(), http.MethodGet, path)
		req = testutil.WithActor(req, id.NewActorID(), id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})

	s.Run("invalid child id returns 400", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/children/not-a-uuid/progress")
		req = testutil.WithActor(req, id.NewActorID(), id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *CaseloadHandlerSuite) TestCaseload() {
	s.Run("worker reads their own queue", func() {
		rollups := []caseload.Rollup{
			{Priority: caseload.PriorityUrgent, OverdueCount: 2},
			{Priority: caseload.PriorityOnTrack},
		}
		s.service.EXPECT().CaseloadRollup(gomock.Any(), s.workerID).Return(rollups, nil)

		req := testutil.NewRequest(s.T(), http.MethodGet, "/caseload")
		req = testutil.WithActor(req, s.workerID, id.RoleHealthWorker)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code)

		var resp struct {
			Caseload []caseload.Rollup `json:"caseload"`
		}
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
		s.Require().Len(resp.Caseload, 2)
		s.Equal(caseload.PriorityUrgent, resp.Caseload[0].Priority)
	})

	s.Run("admin inspects another worker's queue", func() {
		target := id.NewActorID()
		s.service.EXPECT().CaseloadRollup(gomock.Any(), target).Return(nil, nil)

		req := testutil.NewRequest(s.T(), http.MethodGet, "/caseload?worker_id="+target.String())
		req = testutil.WithActor(req, id.NewActorID(), id.RoleAdmin)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("caregivers cannot reach the queue", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/caseload")
		req = testutil.WithActor(req, id.NewActorID(), id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})
}

func (s *CaseloadHandlerSuite) TestDetail() {
	childID := id.NewChildID()

	detail := &caseload.ChildDetail{
		Items:  []caseload.Item{{Status: progress.StatusFlagged, Color: progress.ColorAlert}},
		Rollup: caseload.Rollup{ChildID: childID, FlaggedCount: 1, Priority: caseload.PriorityFlagged},
	}
	s.service.EXPECT().Detail(gomock.Any(), childID).Return(detail, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/children/"+childID.String()+"/detail")
	req = testutil.WithActor(req, s.workerID, id.RoleHealthWorker)

	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusOK, rr.Code)

	var got caseload.ChildDetail
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &got))
	s.Equal(caseload.PriorityFlagged, got.Rollup.Priority)
}
