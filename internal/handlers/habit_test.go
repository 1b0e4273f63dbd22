package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-habit-api/internal/dto"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
)

type HabitHandlerTestSuite struct {
	apiSuite
}

func TestHabitHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HabitHandlerTestSuite))
}

func (s *HabitHandlerTestSuite) createHabit(owner testUser, name string) dto.HabitDTO {
	w := s.request(http.MethodPost, "/api/habits", map[string]any{"name": name}, owner.Token)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var habit dto.HabitDTO
	s.decode(w, &habit)
	return habit
}

func (s *HabitHandlerTestSuite) complete(owner testUser, habitID uint64, day string) *http.Response {
	w := s.request(http.MethodPost, idPath("/api/habits", habitID, "/completions"), map[string]string{
		"completed_on": day,
		"note":         "done",
	}, owner.Token)
	return w.Result()
}

func (s *HabitHandlerTestSuite) TestCreateHabit_Defaults() {
	alice := s.register("alice")

	habit := s.createHabit(alice, "Run")
	s.Equal("Run", habit.Name)
	s.Equal(alice.ID, habit.UserID)
	s.Equal(models.HabitFrequencyDaily, habit.Frequency)
	s.Equal(1, habit.TargetCount)
}

func (s *HabitHandlerTestSuite) TestCreateHabit_Validation() {
	alice := s.register("alice")

	w := s.request(http.MethodPost, "/api/habits", map[string]any{
		"name":         "Run",
		"frequency":    "hourly",
		"target_count": -1,
	}, alice.Token)
	resp := s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	details, ok := resp.Details.(map[string]interface{})
	s.Require().True(ok)
	s.Contains(details, "frequency")
	s.Contains(details, "target_count")
}

func (s *HabitHandlerTestSuite) TestHabitsArePrivate() {
	alice := s.register("alice")
	bob := s.register("bob")
	habit := s.createHabit(alice, "Run")

	w := s.request(http.MethodGet, idPath("/api/habits", habit.ID), nil, bob.Token)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.request(http.MethodPost, idPath("/api/habits", habit.ID, "/completions"), map[string]string{"completed_on": "2026-01-01"}, bob.Token)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.request(http.MethodGet, "/api/habits", nil, bob.Token)
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.HabitListResponse
	s.decode(w, &list)
	s.Empty(list.Habits)
}

func (s *HabitHandlerTestSuite) TestUpdateHabit() {
	alice := s.register("alice")
	habit := s.createHabit(alice, "Run")

	w := s.requestRaw(http.MethodPatch, idPath("/api/habits", habit.ID), `{"frequency":"weekly","target_count":3}`, alice.Token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated dto.HabitDTO
	s.decode(w, &updated)
	s.Equal("Run", updated.Name)
	s.Equal(models.HabitFrequencyWeekly, updated.Frequency)
	s.Equal(3, updated.TargetCount)

	w = s.requestRaw(http.MethodPatch, idPath("/api/habits", habit.ID), `{"name":null}`, alice.Token)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (s *HabitHandlerTestSuite) TestCompletionsOncePerDay() {
	alice := s.register("alice")
	habit := s.createHabit(alice, "Run")

	first := s.request(http.MethodPost, idPath("/api/habits", habit.ID, "/completions"), map[string]string{
		"completed_on": "2026-01-01",
		"note":         "5k",
	}, alice.Token)
	s.Require().Equal(http.StatusCreated, first.Code, first.Body.String())

	var completion dto.HabitCompletionDTO
	s.decode(first, &completion)
	s.Equal("2026-01-01", completion.CompletedOn)
	s.Equal("5k", completion.Note)

	// Same calendar day, different time of day
	second := s.request(http.MethodPost, idPath("/api/habits", habit.ID, "/completions"), map[string]string{
		"completed_on": "2026-01-01T18:30:00Z",
	}, alice.Token)
	s.requireError(second, http.StatusConflict, apierrors.ErrCodeConflict)

	s.Equal(http.StatusCreated, s.complete(alice, habit.ID, "2026-01-02").StatusCode)
}

func (s *HabitHandlerTestSuite) TestCompletions_BadDate() {
	alice := s.register("alice")
	habit := s.createHabit(alice, "Run")

	s.Equal(http.StatusBadRequest, s.complete(alice, habit.ID, "01/02/2026").StatusCode)

	w := s.request(http.MethodGet, idPath("/api/habits", habit.ID, "/completions?from=soon"), nil, alice.Token)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.request(http.MethodGet, idPath("/api/habits", habit.ID, "/completions?from=2026-02-01&to=2026-01-01"), nil, alice.Token)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (s *HabitHandlerTestSuite) TestListCompletions_Range() {
	alice := s.register("alice")
	habit := s.createHabit(alice, "Run")

	for _, day := range []string{"2026-01-03", "2026-01-01", "2026-01-05"} {
		s.Require().Equal(http.StatusCreated, s.complete(alice, habit.ID, day).StatusCode)
	}

	w := s.request(http.MethodGet, idPath("/api/habits", habit.ID, "/completions"), nil, alice.Token)
	s.Require().Equal(http.StatusOK, w.Code)
	var all struct {
		Completions []dto.HabitCompletionDTO `json:"completions"`
	}
	s.decode(w, &all)
	s.Require().Len(all.Completions, 3)
	s.Equal("2026-01-01", all.Completions[0].CompletedOn)
	s.Equal("2026-01-05", all.Completions[2].CompletedOn)

	w = s.request(http.MethodGet, idPath("/api/habits", habit.ID, "/completions?from=2026-01-03&to=2026-01-05"), nil, alice.Token)
	s.Require().Equal(http.StatusOK, w.Code)
	var ranged struct {
		Completions []dto.HabitCompletionDTO `json:"completions"`
	}
	s.decode(w, &ranged)
	s.Require().Len(ranged.Completions, 2)
	s.Equal("2026-01-03", ranged.Completions[0].CompletedOn)
}

func (s *HabitHandlerTestSuite) TestDeleteCompletion() {
	alice := s.register("alice")
	habit := s.createHabit(alice, "Run")
	s.Require().Equal(http.StatusCreated, s.complete(alice, habit.ID, "2026-01-01").StatusCode)

	w := s.request(http.MethodDelete, idPath("/api/habits", habit.ID, "/completions/2026-01-01"), nil, alice.Token)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.request(http.MethodDelete, idPath("/api/habits", habit.ID, "/completions/2026-01-01"), nil, alice.Token)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.request(http.MethodDelete, idPath("/api/habits", habit.ID, "/completions/today"), nil, alice.Token)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	// The day can be completed again once the old record is gone
	s.Equal(http.StatusCreated, s.complete(alice, habit.ID, "2026-01-01").StatusCode)
}

func (s *HabitHandlerTestSuite) TestDeleteHabit() {
	alice := s.register("alice")
	habit := s.createHabit(alice, "Run")
	s.Require().Equal(http.StatusCreated, s.complete(alice, habit.ID, "2026-01-01").StatusCode)

	w := s.request(http.MethodDelete, idPath("/api/habits", habit.ID), nil, alice.Token)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.request(http.MethodGet, idPath("/api/habits", habit.ID), nil, alice.Token)
	s.Equal(http.StatusNotFound, w.Code)

	var remaining int64
	s.Require().NoError(s.db.Model(&models.HabitCompletion{}).Where("habit_id = ?", habit.ID).Count(&remaining).Error)
	s.Zero(remaining)
}
