package store_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"student-directory/internal/model"
	"student-directory/internal/remote"
	"student-directory/internal/remote/remotetest"
	"student-directory/internal/store"

	"github.com/stretchr/testify/suite"
)

type RecordSyncStoreIntegrationTestSuite struct {
	suite.Suite
	twin  *remotetest.Server
	store *store.RecordSyncStore
	ctx   context.Context
}

func (s *RecordSyncStoreIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.twin = remotetest.NewServer(s.T())
}

func (s *RecordSyncStoreIntegrationTestSuite) SetupTest() {
	s.twin.Reset()
	client := remote.NewClient(remote.Options{BaseURL: s.twin.URL})
	s.store = store.NewRecordSyncStore(client, store.DefaultPageSize, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *RecordSyncStoreIntegrationTestSuite) TestCreates_GrowByOneWithUniqueIDs() {
	s.Require().NoError(s.store.LoadAll(s.ctx))

	seen := map[model.RecordID]bool{}
	for i := 1; i <= 15; i++ {
		rec, err := s.store.Create(s.ctx, model.Draft{Name: fmt.Sprintf("Student %d", i)})
		s.Require().NoError(err)
		s.Require().Len(s.store.Records(), i)
		s.Require().False(seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}

	// local membership matches the remote after the run
	s.Equal(s.twin.Records(), s.store.Records())
}

func (s *RecordSyncStoreIntegrationTestSuite) TestEmptyName_NoNetworkCall() {
	s.Require().NoError(s.store.LoadAll(s.ctx))
	before := s.twin.TotalCalls()

	_, err := s.store.Create(s.ctx, model.Draft{Name: ""})
	s.ErrorIs(err, store.ErrNameRequired)
	s.Equal(before, s.twin.TotalCalls())
	s.Empty(s.store.Records())
}

func (s *RecordSyncStoreIntegrationTestSuite) TestAvatarDefault_Deterministic() {
	a, err := s.store.Create(s.ctx, model.Draft{Name: "Ana"})
	s.Require().NoError(err)
	b, err := s.store.Create(s.ctx, model.Draft{Name: "Ana"})
	s.Require().NoError(err)

	s.Equal(a.Avatar, b.Avatar)
	s.Equal(model.PlaceholderAvatar("Ana"), a.Avatar)
	s.NotEqual(a.ID, b.ID)
}

func (s *RecordSyncStoreIntegrationTestSuite) TestLoadUpdateDelete() {
	s.twin.Seed(
		model.Record{Name: "Ana", CreatedAt: "2024-01-01T00:00:00.000Z"},
		model.Record{Name: "Bo", CreatedAt: "2024-01-02T00:00:00.000Z"},
		model.Record{Name: "Cy", CreatedAt: "2024-01-03T00:00:00.000Z"},
	)
	s.Require().NoError(s.store.LoadAll(s.ctx))
	s.Require().Len(s.store.Records(), 3)

	_, err := s.store.Update(s.ctx, "2", model.Draft{Name: "Bob", CreatedAt: "2024-01-02T00:00:00.000Z"})
	s.Require().NoError(err)
	s.Equal("Bob", s.store.Records()[1].Name)

	token, err := s.store.MarkDelete("2")
	s.Require().NoError(err)
	s.Require().NoError(s.store.ConfirmDelete(s.ctx, token))

	for _, r := range s.store.Records() {
		s.NotEqual(model.RecordID("2"), r.ID)
	}
	s.Equal(s.twin.Records(), s.store.Records())
}

func (s *RecordSyncStoreIntegrationTestSuite) TestFirstLoadFailure() {
	s.twin.FailNext(remotetest.OpList, http.StatusServiceUnavailable)

	err := s.store.LoadAll(s.ctx)
	var serr *remote.StatusError
	s.Require().True(errors.As(err, &serr))

	v := s.store.View()
	s.NotEmpty(v.Error)
	s.Empty(v.Records)
	s.False(v.Loading)
}

func (s *RecordSyncStoreIntegrationTestSuite) TestDeleteOfRemotelyMissingRecordAlerts() {
	s.twin.Seed(model.Record{Name: "Ana"})
	s.Require().NoError(s.store.LoadAll(s.ctx))
	s.twin.Reset()

	token, err := s.store.MarkDelete("1")
	s.Require().NoError(err)
	err = s.store.ConfirmDelete(s.ctx, token)

	var merr *store.MutationError
	s.Require().True(errors.As(err, &merr))
	s.Len(s.store.Records(), 1)
	s.NotEmpty(s.store.View().Alert)
}

func TestRecordSyncStoreIntegration(t *testing.T) {
	suite.Run(t, new(RecordSyncStoreIntegrationTestSuite))
}
