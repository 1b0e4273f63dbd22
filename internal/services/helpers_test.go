package services

import (
	"context"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-habit-api/internal/auth"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/repository"
	"github.com/yukikurage/task-habit-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// serviceSuite wires every service over one in-memory database
type serviceSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	users      repository.UserRepository
	tasks      repository.TaskRepository
	habits     repository.HabitRepository
	workspaces repository.WorkspaceRepository

	tokens       *auth.TokenIssuer
	authService  *AuthService
	taskService  *TaskService
	habitService *HabitService
	wsService    *WorkspaceService
}

// SetupTest runs before each test
func (s *serviceSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.ctx = context.Background()

	s.users = repository.NewUserRepository(s.db)
	s.tasks = repository.NewTaskRepository(s.db)
	s.habits = repository.NewHabitRepository(s.db)
	s.workspaces = repository.NewWorkspaceRepository(s.db)

	var err error
	s.tokens, err = auth.NewTokenIssuer(testutil.NewConfig())
	s.Require().NoError(err)

	s.authService = NewAuthService(s.users, s.tokens).WithHashCost(bcrypt.MinCost)
	s.taskService = NewTaskService(s.tasks, s.users, s.workspaces, nil)
	s.habitService = NewHabitService(s.habits, s.users)
	s.wsService = NewWorkspaceService(s.workspaces, s.users)
}

func (s *serviceSuite) register(name string) *models.User {
	user, _, err := s.authService.Register(s.ctx, RegisterInput{
		Email:    name + "@example.com",
		Username: name,
		Password: "password123",
	})
	s.Require().NoError(err)
	return user
}

func (s *serviceSuite) createWorkspace(owner *models.User, key string) *models.Workspace {
	workspace, err := s.wsService.CreateWorkspace(s.ctx, CreateWorkspaceInput{
		OwnerID: owner.ID,
		Name:    key + " team",
		Key:     key,
	})
	s.Require().NoError(err)
	return workspace
}

func (s *serviceSuite) addMember(workspace *models.Workspace, user *models.User, role models.WorkspaceRole) {
	_, err := s.wsService.AddMember(s.ctx, AddMemberInput{
		WorkspaceID: workspace.ID,
		ActorID:     workspace.OwnerID,
		UserID:      user.ID,
		Role:        role,
	})
	s.Require().NoError(err)
}

func (s *serviceSuite) requireKind(err error, kind apierrors.Kind) {
	s.T().Helper()
	s.Require().Error(err)
	s.Equal(kind, apierrors.KindOf(err), err.Error())
}
