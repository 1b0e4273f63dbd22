package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
)

type HabitServiceTestSuite struct {
	serviceSuite
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *HabitServiceTestSuite) createRun(owner *models.User) *models.Habit {
	habit, err := s.habitService.CreateHabit(s.ctx, CreateHabitInput{
		OwnerID:     owner.ID,
		Name:        "Run",
		Frequency:   models.HabitFrequencyDaily,
		TargetCount: 1,
	})
	s.Require().NoError(err)
	return habit
}

func (s *HabitServiceTestSuite) TestCompletion_Scenario() {
	alice := s.register("alice")
	habit := s.createRun(alice)

	_, err := s.habitService.RecordCompletion(s.ctx, alice.ID, habit.ID, day(2026, 1, 1), "")
	s.Require().NoError(err)

	_, err = s.habitService.RecordCompletion(s.ctx, alice.ID, habit.ID, day(2026, 1, 1), "again")
	s.ErrorIs(err, ErrCompletionExists)
	s.requireKind(err, apierrors.KindConflict)

	_, err = s.habitService.RecordCompletion(s.ctx, alice.ID, habit.ID, day(2026, 1, 2), "")
	s.Require().NoError(err)
}

func (s *HabitServiceTestSuite) TestRecordCompletion_SameDayDifferentTime() {
	alice := s.register("alice")
	habit := s.createRun(alice)

	morning := time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 1, 1, 21, 0, 0, 0, time.UTC)

	completion, err := s.habitService.RecordCompletion(s.ctx, alice.ID, habit.ID, morning, "morning run")
	s.Require().NoError(err)
	s.True(day(2026, 1, 1).Equal(completion.CompletedOn))
	s.Equal("morning run", completion.Note)

	_, err = s.habitService.RecordCompletion(s.ctx, alice.ID, habit.ID, evening, "")
	s.ErrorIs(err, ErrCompletionExists)
}

func (s *HabitServiceTestSuite) TestRecordCompletion_Concurrent() {
	alice := s.register("alice")
	habit := s.createRun(alice)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.habitService.RecordCompletion(context.Background(), alice.ID, habit.ID, day(2026, 1, 1), "")
		}(i)
	}
	wg.Wait()

	var succeeded, conflicts int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if apierrors.KindOf(err) == apierrors.KindConflict {
			conflicts++
		}
	}
	s.Equal(1, succeeded)
	s.Equal(1, conflicts)

	completions, err := s.habitService.ListCompletions(s.ctx, alice.ID, habit.ID, nil, nil)
	s.Require().NoError(err)
	s.Len(completions, 1)
}

func (s *HabitServiceTestSuite) TestCreateHabit_Defaults() {
	alice := s.register("alice")

	habit, err := s.habitService.CreateHabit(s.ctx, CreateHabitInput{OwnerID: alice.ID, Name: "Read"})
	s.Require().NoError(err)
	s.Equal(models.HabitFrequencyDaily, habit.Frequency)
	s.Equal(1, habit.TargetCount)
}

func (s *HabitServiceTestSuite) TestCreateHabit_Validation() {
	alice := s.register("alice")

	_, err := s.habitService.CreateHabit(s.ctx, CreateHabitInput{OwnerID: alice.ID, Name: "Run", Frequency: "hourly"})
	s.requireKind(err, apierrors.KindValidation)

	_, err = s.habitService.CreateHabit(s.ctx, CreateHabitInput{OwnerID: alice.ID, Name: "Run", TargetCount: -2})
	s.requireKind(err, apierrors.KindValidation)

	_, err = s.habitService.CreateHabit(s.ctx, CreateHabitInput{OwnerID: alice.ID, Name: ""})
	s.requireKind(err, apierrors.KindValidation)
}

func (s *HabitServiceTestSuite) TestHabitOwnership() {
	alice := s.register("alice")
	bob := s.register("bob")
	habit := s.createRun(alice)

	_, err := s.habitService.GetHabit(s.ctx, bob.ID, habit.ID)
	s.ErrorIs(err, ErrHabitNotFound)

	_, err = s.habitService.RecordCompletion(s.ctx, bob.ID, habit.ID, day(2026, 1, 1), "")
	s.ErrorIs(err, ErrHabitNotFound)

	s.ErrorIs(s.habitService.DeleteHabit(s.ctx, bob.ID, habit.ID), ErrHabitNotFound)
}

func (s *HabitServiceTestSuite) TestUpdateHabit() {
	alice := s.register("alice")
	habit := s.createRun(alice)

	weekly := models.HabitFrequencyWeekly
	three := 3
	updated, err := s.habitService.UpdateHabit(s.ctx, alice.ID, habit.ID, UpdateHabitInput{
		Frequency:   &weekly,
		TargetCount: &three,
	})
	s.Require().NoError(err)
	s.Equal(models.HabitFrequencyWeekly, updated.Frequency)
	s.Equal(3, updated.TargetCount)
	s.Equal("Run", updated.Name)

	zero := 0
	_, err = s.habitService.UpdateHabit(s.ctx, alice.ID, habit.ID, UpdateHabitInput{TargetCount: &zero})
	s.requireKind(err, apierrors.KindValidation)
}

func (s *HabitServiceTestSuite) TestListCompletions_Range() {
	alice := s.register("alice")
	habit := s.createRun(alice)

	for _, d := range []int{3, 1, 2} {
		_, err := s.habitService.RecordCompletion(s.ctx, alice.ID, habit.ID, day(2026, 1, d), "")
		s.Require().NoError(err)
	}

	all, err := s.habitService.ListCompletions(s.ctx, alice.ID, habit.ID, nil, nil)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(1, all[0].CompletedOn.Day())
	s.Equal(2, all[1].CompletedOn.Day())
	s.Equal(3, all[2].CompletedOn.Day())

	from, to := day(2026, 1, 2), day(2026, 1, 3)
	ranged, err := s.habitService.ListCompletions(s.ctx, alice.ID, habit.ID, &from, &to)
	s.Require().NoError(err)
	s.Len(ranged, 2)

	_, err = s.habitService.ListCompletions(s.ctx, alice.ID, habit.ID, &to, &from)
	s.ErrorIs(err, ErrInvalidDateRange)
}

func (s *HabitServiceTestSuite) TestDeleteCompletion() {
	alice := s.register("alice")
	habit := s.createRun(alice)

	_, err := s.habitService.RecordCompletion(s.ctx, alice.ID, habit.ID, day(2026, 1, 1), "")
	s.Require().NoError(err)

	s.Require().NoError(s.habitService.DeleteCompletion(s.ctx, alice.ID, habit.ID, day(2026, 1, 1)))
	s.ErrorIs(s.habitService.DeleteCompletion(s.ctx, alice.ID, habit.ID, day(2026, 1, 1)), ErrCompletionNotFound)

	_, err = s.habitService.RecordCompletion(s.ctx, alice.ID, habit.ID, day(2026, 1, 1), "")
	s.Require().NoError(err)
}

func (s *HabitServiceTestSuite) TestDeleteUser_CascadesHabits() {
	alice := s.register("alice")
	habit := s.createRun(alice)
	_, err := s.habitService.RecordCompletion(s.ctx, alice.ID, habit.ID, day(2026, 1, 1), "")
	s.Require().NoError(err)

	s.Require().NoError(s.authService.DeleteUser(s.ctx, alice.ID))

	var habits, completions int64
	s.Require().NoError(s.db.Model(&models.Habit{}).Count(&habits).Error)
	s.Require().NoError(s.db.Model(&models.HabitCompletion{}).Count(&completions).Error)
	s.Zero(habits)
	s.Zero(completions)
}

func TestHabitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HabitServiceTestSuite))
}
