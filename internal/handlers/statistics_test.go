package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/avolkov/task-manager-api/internal/dto"
	"github.com/avolkov/task-manager-api/internal/models"
	"github.com/avolkov/task-manager-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const testAdminOnlyMessage = "Available to administrators only"

type StatisticsHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *StatisticsHandler

	alice *models.User
	bob   *models.User
	admin *models.User
}

func (s *StatisticsHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = newTestDB(&s.Suite)
	s.handler = NewStatisticsHandler(services.NewStatisticsService(s.db, testAdminOnlyMessage))

	s.alice = createTestUser(&s.Suite, s.db, "alice", false)
	s.bob = createTestUser(&s.Suite, s.db, "bob", false)
	s.admin = createTestUser(&s.Suite, s.db, "admin", true)
}

func (s *StatisticsHandlerTestSuite) TearDownTest() {
	closeTestDB(&s.Suite, s.db)
}

// seedStats creates two groups for alice, one for bob, and a mix of tasks:
// alice has 3 (1 pending, 1 in progress, 1 completed; 2 grouped), bob has 2
// (both pending, 1 grouped).
func (s *StatisticsHandlerTestSuite) seedStats() (aliceWork, aliceHome, bobStuff *models.Group) {
	aliceWork = createTestGroup(&s.Suite, s.db, "Work", s.alice.ID)
	aliceHome = createTestGroup(&s.Suite, s.db, "Home", s.alice.ID)
	bobStuff = createTestGroup(&s.Suite, s.db, "Stuff", s.bob.ID)

	createTestTask(&s.Suite, s.db, "A1", s.alice.ID, &aliceWork.ID, models.TaskStatusPending)
	createTestTask(&s.Suite, s.db, "A2", s.alice.ID, &aliceWork.ID, models.TaskStatusCompleted)
	createTestTask(&s.Suite, s.db, "A3", s.alice.ID, nil, models.TaskStatusInProgress)
	createTestTask(&s.Suite, s.db, "B1", s.bob.ID, &bobStuff.ID, models.TaskStatusPending)
	createTestTask(&s.Suite, s.db, "B2", s.bob.ID, nil, models.TaskStatusPending)
	return
}

func (s *StatisticsHandlerTestSuite) general(p models.User) (int, dto.StatisticsDTO) {
	c, w := newAuthedContext(http.MethodGet, "/api/statistics", nil, principalFor(&p))
	s.handler.General(c)

	var stats dto.StatisticsDTO
	if w.Code == http.StatusOK {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	}
	return w.Code, stats
}

func (s *StatisticsHandlerTestSuite) TestGeneral_Admin() {
	s.seedStats()

	code, stats := s.general(*s.admin)
	s.Equal(http.StatusOK, code)

	s.EqualValues(3, stats.TotalUsers)
	s.EqualValues(5, stats.TotalTasks)
	s.EqualValues(3, stats.TotalGroups)
	s.EqualValues(3, stats.PendingTasks)
	s.EqualValues(1, stats.InProgressTasks)
	s.EqualValues(1, stats.CompletedTasks)
	s.EqualValues(3, stats.TasksWithGroup)
	s.EqualValues(2, stats.TasksWithoutGroup)

	s.Equal("Work (2 tasks), Stuff (1 tasks), Home (0 tasks)", stats.TopGroups)
	s.Equal("alice (3 tasks), bob (2 tasks), admin (0 tasks)", stats.TopUsers)
}

func (s *StatisticsHandlerTestSuite) TestGeneral_SumInvariants() {
	s.seedStats()

	code, stats := s.general(*s.admin)
	s.Equal(http.StatusOK, code)

	s.Equal(stats.TotalTasks, stats.PendingTasks+stats.InProgressTasks+stats.CompletedTasks)
	s.Equal(stats.TotalTasks, stats.TasksWithGroup+stats.TasksWithoutGroup)
}

func (s *StatisticsHandlerTestSuite) TestGeneral_NonAdminScoped() {
	s.seedStats()

	code, stats := s.general(*s.alice)
	s.Equal(http.StatusOK, code)

	s.EqualValues(1, stats.TotalUsers)
	s.EqualValues(3, stats.TotalTasks)
	s.EqualValues(2, stats.TotalGroups)
	s.EqualValues(1, stats.PendingTasks)
	s.EqualValues(1, stats.InProgressTasks)
	s.EqualValues(1, stats.CompletedTasks)
	s.EqualValues(2, stats.TasksWithGroup)
	s.EqualValues(1, stats.TasksWithoutGroup)

	s.Equal(testAdminOnlyMessage, stats.TopGroups)
	s.Equal(testAdminOnlyMessage, stats.TopUsers)
}

func (s *StatisticsHandlerTestSuite) TestGeneral_EmptyDatabase() {
	code, stats := s.general(*s.admin)
	s.Equal(http.StatusOK, code)

	s.EqualValues(3, stats.TotalUsers)
	s.EqualValues(0, stats.TotalTasks)
	s.Equal("No data", stats.TopGroups)
	s.Equal("alice (0 tasks), bob (0 tasks), admin (0 tasks)", stats.TopUsers)
}

func (s *StatisticsHandlerTestSuite) TestDashboard_MatchesGeneral() {
	s.seedStats()

	c, w := newAuthedContext(http.MethodGet, "/api/statistics/dashboard", nil, principalFor(s.admin))
	s.handler.Dashboard(c)
	s.Equal(http.StatusOK, w.Code)

	var dashboard dto.StatisticsDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &dashboard))

	_, general := s.general(*s.admin)
	s.Equal(general, dashboard)
}

func (s *StatisticsHandlerTestSuite) TestGroups_Admin() {
	aliceWork, aliceHome, bobStuff := s.seedStats()

	c, w := newAuthedContext(http.MethodGet, "/api/statistics/groups", nil, principalFor(s.admin))
	s.handler.Groups(c)
	s.Equal(http.StatusOK, w.Code)

	var rows []dto.GroupStatisticsDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rows))
	s.Require().Len(rows, 3)

	// Ordered by task count descending, then by id.
	s.Equal(aliceWork.ID, rows[0].GroupID)
	s.EqualValues(2, rows[0].TaskCount)
	s.EqualValues(1, rows[0].CompletedTasks)
	s.EqualValues(1, rows[0].PendingTasks)
	s.Equal("alice", rows[0].OwnerUsername)

	s.Equal(bobStuff.ID, rows[1].GroupID)
	s.EqualValues(1, rows[1].TaskCount)

	s.Equal(aliceHome.ID, rows[2].GroupID)
	s.EqualValues(0, rows[2].TaskCount)
}

func (s *StatisticsHandlerTestSuite) TestGroups_NonAdminScoped() {
	s.seedStats()

	c, w := newAuthedContext(http.MethodGet, "/api/statistics/groups", nil, principalFor(s.bob))
	s.handler.Groups(c)
	s.Equal(http.StatusOK, w.Code)

	var rows []dto.GroupStatisticsDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rows))
	s.Require().Len(rows, 1)
	s.Equal("Stuff", rows[0].GroupName)
}

func (s *StatisticsHandlerTestSuite) TestUsers_Admin() {
	s.seedStats()

	c, w := newAuthedContext(http.MethodGet, "/api/statistics/users", nil, principalFor(s.admin))
	s.handler.Users(c)
	s.Equal(http.StatusOK, w.Code)

	var rows []dto.UserStatisticsDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rows))
	s.Require().Len(rows, 3)

	s.Equal("alice", rows[0].Username)
	s.EqualValues(3, rows[0].TaskCount)
	s.EqualValues(2, rows[0].GroupCount)
	s.EqualValues(1, rows[0].CompletedTasks)

	s.Equal("bob", rows[1].Username)
	s.EqualValues(2, rows[1].TaskCount)
	s.EqualValues(1, rows[1].GroupCount)

	s.Equal("admin", rows[2].Username)
	s.EqualValues(0, rows[2].TaskCount)
	s.EqualValues(0, rows[2].GroupCount)
}

func (s *StatisticsHandlerTestSuite) TestUsers_NonAdminForbidden() {
	c, w := newAuthedContext(http.MethodGet, "/api/statistics/users", nil, principalFor(s.alice))
	s.handler.Users(c)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *StatisticsHandlerTestSuite) TestTopGroups_LimitAndOrdering() {
	// Seven groups with descending task counts; only five should come back.
	for i := 0; i < 7; i++ {
		group := createTestGroup(&s.Suite, s.db, fmt.Sprintf("G%d", i), s.alice.ID)
		for j := 0; j < 7-i; j++ {
			createTestTask(&s.Suite, s.db, fmt.Sprintf("T%d-%d", i, j), s.alice.ID, &group.ID, models.TaskStatusCompleted)
		}
	}

	c, w := newAuthedContext(http.MethodGet, "/api/statistics/top-groups", nil, principalFor(s.admin))
	s.handler.TopGroups(c)
	s.Equal(http.StatusOK, w.Code)

	var rows []dto.GroupStatisticsDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rows))
	s.Require().Len(rows, 5)

	s.Equal("G0", rows[0].GroupName)
	s.EqualValues(7, rows[0].TaskCount)
	for i := 1; i < len(rows); i++ {
		s.GreaterOrEqual(rows[i-1].TaskCount, rows[i].TaskCount)
	}

	// The fast path skips per-status counts.
	for _, row := range rows {
		s.EqualValues(0, row.CompletedTasks)
		s.EqualValues(0, row.PendingTasks)
	}
}

func (s *StatisticsHandlerTestSuite) TestTopGroups_NonAdminForbidden() {
	c, w := newAuthedContext(http.MethodGet, "/api/statistics/top-groups", nil, principalFor(s.alice))
	s.handler.TopGroups(c)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *StatisticsHandlerTestSuite) TestTopUsers_Admin() {
	s.seedStats()

	c, w := newAuthedContext(http.MethodGet, "/api/statistics/top-users", nil, principalFor(s.admin))
	s.handler.TopUsers(c)
	s.Equal(http.StatusOK, w.Code)

	var rows []dto.UserStatisticsDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rows))
	s.Require().NotEmpty(rows)
	s.Equal("alice", rows[0].Username)
	s.EqualValues(3, rows[0].TaskCount)
}

func (s *StatisticsHandlerTestSuite) TestTopUsers_NonAdminForbidden() {
	c, w := newAuthedContext(http.MethodGet, "/api/statistics/top-users", nil, principalFor(s.bob))
	s.handler.TopUsers(c)

	s.Equal(http.StatusForbidden, w.Code)
}

func TestStatisticsHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(StatisticsHandlerTestSuite))
}
