package httptransport

//go:generate mockgen -source=handlers_records.go -destination=mocks/record-mocks.go -package=mocks RecordService

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sprout/internal/record"
	"sprout/internal/transport/http/mocks"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	"sprout/pkg/testutil"
)

type RecordHandlerSuite struct {
	suite.Suite

	service *mocks.MockRecordService
	router  chi.Router

	caregiverID id.ActorID
	workerID    id.ActorID
}

func TestRecordHandlerSuite(t *testing.T) {
	suite.Run(t, new(RecordHandlerSuite))
}

func (s *RecordHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockRecordService(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	NewRecordHandler(s.service, logger).Register(s.router)

	s.caregiverID = id.NewActorID()
	s.workerID = id.NewActorID()
}

func (s *RecordHandlerSuite) TestCreate() {
	childID := id.NewChildID()
	path := "/children/" + childID.String() + "/records"

	s.Run("created record returns 201", func() {
		rec := &record.AchievementRecord{
			ID:           id.NewRecordID(),
			ChildID:      childID,
			Verification: record.Verification{Status: id.VerificationPending},
		}
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).Return(rec, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, map[string]string{
			"milestone_id":  id.NewMilestoneID().String(),
			"achieved_date": "2026-05-08",
			"notes":         "smiled at mirror",
		})
		req = testutil.WithActor(req, s.caregiverID, id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusCreated, rr.Code)

		var got record.AchievementRecord
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &got))
		s.Equal(rec.ID, got.ID)
		s.Equal(id.VerificationPending, got.Verification.Status)
	})

	s.Run("duplicate pair returns 409", func() {
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeDuplicateRecord, "a record already exists"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, map[string]string{
			"milestone_id":  id.NewMilestoneID().String(),
			"achieved_date": "2026-05-08",
		})
		req = testutil.WithActor(req, s.caregiverID, id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusConflict, rr.Code)
		s.Contains(rr.Body.String(), "duplicate_record")
	})

	s.Run("malformed date returns 400 without touching the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, map[string]string{
			"milestone_id":  id.NewMilestoneID().String(),
			"achieved_date": "08/05/2026",
		})
		req = testutil.WithActor(req, s.caregiverID, id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("health workers cannot create records", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, map[string]string{
			"milestone_id":  id.NewMilestoneID().String(),
			"achieved_date": "2026-05-08",
		})
		req = testutil.WithActor(req, s.workerID, id.RoleHealthWorker)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})
}

func (s *RecordHandlerSuite) TestUpdate() {
	recordID := id.NewRecordID()
	path := "/records/" + recordID.String()

	s.Run("edit returns the reopened record", func() {
		rec := &record.AchievementRecord{
			ID:           recordID,
			Notes:        "rolled both ways",
			Verification: record.Verification{Status: id.VerificationPending},
			UpdatedAt:    time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC),
		}
		s.service.EXPECT().Update(gomock.Any(), recordID, gomock.Any()).Return(rec, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, path, map[string]string{"notes": "rolled both ways"})
		req = testutil.WithActor(req, s.caregiverID, id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code)

		var got record.AchievementRecord
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &got))
		s.Equal(id.VerificationPending, got.Verification.Status)
	})

	s.Run("empty edit returns 400", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, path, map[string]string{})
		req = testutil.WithActor(req, s.caregiverID, id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("foreign record returns 403", func() {
		s.service.EXPECT().Update(gomock.Any(), recordID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "record belongs to another caregiver"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, path, map[string]string{"notes": "x"})
		req = testutil.WithActor(req, s.caregiverID, id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})
}

func (s *RecordHandlerSuite) TestDelete() {
	recordID := id.NewRecordID()
	path := "/records/" + recordID.String()

	s.Run("delete returns 204", func() {
		s.service.EXPECT().Delete(gomock.Any(), recordID).Return(nil)

		req := testutil.NewRequest(s.T(), http.MethodDelete, path)
		req = testutil.WithActor(req, s.caregiverID, id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusNoContent, rr.Code)
	})

	s.Run("missing record returns 404", func() {
		s.service.EXPECT().Delete(gomock.Any(), recordID).
			Return(dErrors.New(dErrors.CodeNotFound, "record not found"))

		req := testutil.NewRequest(s.T(), http.MethodDelete, path)
		req = testutil.WithActor(req, s.caregiverID, id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusNotFound, rr.Code)
	})
}

func (s *RecordHandlerSuite) TestVerification() {
	recordID := id.NewRecordID()

	s.Run("approve without a body is allowed", func() {
		rec := &record.AchievementRecord{
			ID:           recordID,
			Verification: record.Verification{Status: id.VerificationApproved, VerifiedBy: &s.workerID},
		}
		s.service.EXPECT().Approve(gomock.Any(), recordID, "").Return(rec, nil)

		req := testutil.NewRequest(s.T(), http.MethodPost, "/records/"+recordID.String()+"/approve")
		req = testutil.WithActor(req, s.workerID, id.RoleHealthWorker)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code)

		var got record.AchievementRecord
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &got))
		s.Equal(id.VerificationApproved, got.Verification.Status)
	})

	s.Run("flag passes notes through", func() {
		rec := &record.AchievementRecord{
			ID:           recordID,
			Verification: record.Verification{Status: id.VerificationFlagged, Notes: "asymmetric movement"},
		}
		s.service.EXPECT().Flag(gomock.Any(), recordID, "asymmetric movement").Return(rec, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/records/"+recordID.String()+"/flag",
			map[string]string{"notes": "asymmetric movement"})
		req = testutil.WithActor(req, s.workerID, id.RoleHealthWorker)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("already reviewed returns 409", func() {
		s.service.EXPECT().Approve(gomock.Any(), recordID, "").
			Return(nil, dErrors.New(dErrors.CodeInvalidState, "record is not pending verification"))

		req := testutil.NewRequest(s.T(), http.MethodPost, "/records/"+recordID.String()+"/approve")
		req = testutil.WithActor(req, s.workerID, id.RoleHealthWorker)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusConflict, rr.Code)
		s.Contains(rr.Body.String(), "invalid_state")
	})

	s.Run("caregivers cannot reach verification routes", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/records/"+recordID.String()+"/approve")
		req = testutil.WithActor(req, s.caregiverID, id.RoleCaregiver)

		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})
}
