package dashboard

import (
	"context"
	"strconv"

	"github.com/howstheair/dashboard/internal/activity"
	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/backend"
)

// Stations reloads the board and returns the stations matching search.
func (s *Service) Stations(ctx context.Context, search string) ([]airquality.Station, error) {
	if _, err := s.board.Load(ctx); err != nil {
		return nil, err
	}
	return s.board.Filter(search), nil
}

// CreateStation registers a station on behalf of actor.
func (s *Service) CreateStation(ctx context.Context, actor string, req backend.CreateStationRequest) (*airquality.Station, error) {
	st, err := s.backend.CreateStation(ctx, req)
	target := req.Keyword
	if err == nil {
		if st.ID != 0 {
			target = strconv.Itoa(st.ID)
		}
		s.remember(ctx, st)
	}
	s.activity.Record(ctx, activity.ActionStationCreate, actor, target, err, req.StationName)
	return st, err
}

// RenameStation changes a station's keyword on behalf of actor.
func (s *Service) RenameStation(ctx context.Context, actor string, id int, keyword string) (*airquality.Station, error) {
	st, err := s.backend.UpdateStationKeyword(ctx, id, keyword)
	if err == nil {
		s.remember(ctx, st)
	}
	s.activity.Record(ctx, activity.ActionStationUpdate, actor, strconv.Itoa(id), err, keyword)
	return st, err
}

// SetStationActive toggles a station through the board on behalf of actor.
func (s *Service) SetStationActive(ctx context.Context, actor string, id int, active bool) (*airquality.Station, error) {
	st, err := s.board.Toggle(ctx, id, active)
	detail := "deactivated"
	if active {
		detail = "activated"
	}
	s.activity.Record(ctx, activity.ActionStationToggle, actor, strconv.Itoa(id), err, detail)
	return st, err
}

// FlipStation inverts a station's active flag on behalf of actor.
func (s *Service) FlipStation(ctx context.Context, actor string, id int) (*airquality.Station, error) {
	st, err := s.board.Flip(ctx, id)
	detail := "flipped"
	if err == nil {
		detail = "deactivated"
		if st.IsActive {
			detail = "activated"
		}
	}
	s.activity.Record(ctx, activity.ActionStationToggle, actor, strconv.Itoa(id), err, detail)
	return st, err
}

// DeleteStation removes a station on behalf of actor.
func (s *Service) DeleteStation(ctx context.Context, actor string, id int) error {
	err := s.backend.DeleteStation(ctx, id)
	if err == nil {
		s.board.remove(id)
	}
	s.activity.Record(ctx, activity.ActionStationDelete, actor, strconv.Itoa(id), err, "")
	return err
}

// remember puts st on the board. A station without an ID means the backend
// answered without a body, so the board is reloaded instead.
func (s *Service) remember(ctx context.Context, st *airquality.Station) {
	if st != nil && st.ID != 0 {
		s.board.put(*st)
		return
	}
	if _, err := s.board.Load(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to reload stations")
	}
}
