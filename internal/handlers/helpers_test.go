package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-habit-api/internal/auth"
	"github.com/yukikurage/task-habit-api/internal/dto"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/middleware"
	"github.com/yukikurage/task-habit-api/internal/repository"
	"github.com/yukikurage/task-habit-api/internal/services"
	"github.com/yukikurage/task-habit-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// apiSuite serves the full router over an in-memory database
type apiSuite struct {
	suite.Suite
	db     *gorm.DB
	deps   Dependencies
	router *gin.Engine
}

type testUser struct {
	ID    uint64
	Token string
}

// SetupTest runs before each test
func (s *apiSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = testutil.NewDB(s.T())
	s.router = s.newRouter(nil)
}

func (s *apiSuite) newRouter(generator services.TaskGenerator) *gin.Engine {
	cfg := testutil.NewConfig()

	tokens, err := auth.NewTokenIssuer(cfg)
	s.Require().NoError(err)

	userRepo := repository.NewUserRepository(s.db)
	workspaceRepo := repository.NewWorkspaceRepository(s.db)

	s.deps = Dependencies{
		DB:         s.db,
		Auth:       services.NewAuthService(userRepo, tokens).WithHashCost(bcrypt.MinCost),
		Tasks:      services.NewTaskService(repository.NewTaskRepository(s.db), userRepo, workspaceRepo, generator),
		Habits:     services.NewHabitService(repository.NewHabitRepository(s.db), userRepo),
		Workspaces: services.NewWorkspaceService(workspaceRepo, userRepo),
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	sessionMiddleware, err := middleware.Sessions(cfg)
	s.Require().NoError(err)
	r.Use(sessionMiddleware)
	RegisterRoutes(r, s.deps)

	return r
}

// request sends a JSON request; an empty token sends no Authorization header
func (s *apiSuite) request(method, path string, body any, token string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// requestRaw sends a body verbatim, for payloads with explicit nulls
func (s *apiSuite) requestRaw(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *apiSuite) register(name string) testUser {
	w := s.request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    name + "@example.com",
		"username": name,
		"password": "password123",
	}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.RegisterResponse
	s.decode(w, &resp)
	return testUser{ID: resp.User.ID, Token: resp.AccessToken}
}

func (s *apiSuite) createWorkspace(owner testUser, key string) dto.WorkspaceWithRoleDTO {
	w := s.request(http.MethodPost, "/api/workspaces", map[string]string{
		"name": key + " team",
		"key":  key,
	}, owner.Token)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.WorkspaceWithRoleDTO
	s.decode(w, &resp)
	return resp
}

func (s *apiSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// requireError checks the status and the error envelope code
func (s *apiSuite) requireError(w *httptest.ResponseRecorder, status int, code string) apierrors.APIError {
	s.Require().Equal(status, w.Code, w.Body.String())

	var resp apierrors.APIError
	s.decode(w, &resp)
	s.Equal(code, resp.Code)
	return resp
}

func idPath(prefix string, id uint64, suffix ...string) string {
	return prefix + "/" + strconv.FormatUint(id, 10) + strings.Join(suffix, "")
}
