package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/testutil"
)

func statsFixture(t *testing.T) (*StatsService, *testutil.MockUserRepository, *testutil.MockSaleRepository) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	saleRepo := testutil.NewMockSaleRepository()
	statsService := NewStatsService(userRepo, saleRepo)
	statsService.now = func() time.Time { return fixedClock }
	return statsService, userRepo, saleRepo
}

func TestGetPlatformStatistics_Overview(t *testing.T) {
	statsService, userRepo, _ := statsFixture(t)

	mentorID := int32(3)
	userRepo.AddUser(&domain.User{ID: 1, Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin, CreatedAt: fixedClock})
	userRepo.AddUser(&domain.User{ID: 2, Username: "root", Email: "root@example.com", Role: domain.RoleAdmin, CreatedAt: fixedClock})
	userRepo.AddUser(&domain.User{ID: 3, Username: "marta", Email: "marta@example.com", Role: domain.RoleMentor, CreatedAt: fixedClock})
	userRepo.AddUser(&domain.User{ID: 4, Username: "ana", Email: "ana@example.com", Role: domain.RoleUser, MentorID: &mentorID, CreatedAt: fixedClock})
	userRepo.AddUser(&domain.User{ID: 5, Username: "luis", Email: "luis@example.com", Role: domain.RoleUser, CreatedAt: fixedClock})
	userRepo.AddUser(&domain.User{ID: 6, Username: "pepe", Email: "pepe@example.com", Role: domain.RoleUser, CreatedAt: fixedClock})

	stats, err := statsService.GetPlatformStatistics()
	require.NoError(t, err)

	overview := stats.Overview
	assert.Equal(t, int64(6), overview.TotalUsers)
	assert.Equal(t, int64(2), overview.TotalAdmins)
	assert.Equal(t, int64(1), overview.TotalMentors)
	assert.Equal(t, int64(3), overview.TotalEntrepreneurs)
	assert.Equal(t, int64(1), overview.UsersWithMentor)
	assert.Equal(t, int64(2), overview.UsersWithoutMentor)

	require.Len(t, stats.RoleDistribution, 3)
	assert.Equal(t, domain.RoleAdmin, stats.RoleDistribution[0].Role)
	assert.Equal(t, int64(2), stats.RoleDistribution[0].Count)

	require.Len(t, stats.MentorAssignment, 2)
	assert.Equal(t, "with_mentor", stats.MentorAssignment[0].Status)
	assert.Equal(t, int64(1), stats.MentorAssignment[0].Count)
	assert.Equal(t, "without_mentor", stats.MentorAssignment[1].Status)
	assert.Equal(t, int64(2), stats.MentorAssignment[1].Count)

	require.Len(t, stats.MentorBreakdown, 1)
	assert.Equal(t, "marta", stats.MentorBreakdown[0].Mentor)
	assert.Equal(t, int64(1), stats.MentorBreakdown[0].Count)
}

func TestGetPlatformStatistics_MonthlySignupsIncludeEmptyMonths(t *testing.T) {
	statsService, userRepo, _ := statsFixture(t)

	// fixedClock is March 2025 so the window is April 2024 through March 2025
	userRepo.AddUser(&domain.User{ID: 1, Username: "old", Email: "old@example.com", Role: domain.RoleUser,
		CreatedAt: time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)})
	userRepo.AddUser(&domain.User{ID: 2, Username: "june1", Email: "june1@example.com", Role: domain.RoleUser,
		CreatedAt: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)})
	userRepo.AddUser(&domain.User{ID: 3, Username: "june2", Email: "june2@example.com", Role: domain.RoleUser,
		CreatedAt: time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)})
	userRepo.AddUser(&domain.User{ID: 4, Username: "march", Email: "march@example.com", Role: domain.RoleUser,
		CreatedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)})

	stats, err := statsService.GetPlatformStatistics()
	require.NoError(t, err)

	monthly := stats.MonthlyUsers
	require.Len(t, monthly, 12)
	assert.Equal(t, "2024-04", monthly[0].Month)
	assert.Equal(t, "2025-03", monthly[11].Month)

	byMonth := make(map[string]int64, len(monthly))
	for _, m := range monthly {
		byMonth[m.Month] = m.Count
	}
	assert.Equal(t, int64(2), byMonth["2024-06"])
	assert.Equal(t, int64(1), byMonth["2025-03"])
	assert.Zero(t, byMonth["2024-05"], "signups before the window must not bleed in")
}

func TestGetMentorPerformance(t *testing.T) {
	statsService, userRepo, saleRepo := statsFixture(t)

	mentorID := int32(1)
	userRepo.AddUser(&domain.User{ID: 1, Username: "marta", Email: "marta@example.com", Role: domain.RoleMentor})
	userRepo.AddUser(&domain.User{ID: 2, Username: "idle", Email: "idle@example.com", Role: domain.RoleMentor})
	userRepo.AddUser(&domain.User{ID: 3, Username: "ana", Email: "ana@example.com", Role: domain.RoleUser, MentorID: &mentorID})
	userRepo.AddUser(&domain.User{ID: 4, Username: "luis", Email: "luis@example.com", Role: domain.RoleUser, MentorID: &mentorID})
	saleRepo.MentorOf[3] = 1
	saleRepo.MentorOf[4] = 1

	// Only ana sold inside the current month
	saleRepo.AddSale(&domain.DailySale{UserID: 3, SaleDate: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), UnitsSold: 3})
	saleRepo.AddSale(&domain.DailySale{UserID: 4, SaleDate: time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC), UnitsSold: 2})

	performance, err := statsService.GetMentorPerformance()
	require.NoError(t, err)
	require.Len(t, performance, 2)

	assert.Equal(t, int32(1), performance[0].MentorID)
	assert.Equal(t, "marta", performance[0].Mentor)
	assert.Equal(t, int64(2), performance[0].Mentees)
	assert.Equal(t, int64(1), performance[0].ActiveMentees)

	assert.Equal(t, int64(0), performance[1].Mentees)
	assert.Equal(t, int64(0), performance[1].ActiveMentees)
}

func TestGetPlatformStatistics_EmptyPlatform(t *testing.T) {
	statsService, _, _ := statsFixture(t)

	stats, err := statsService.GetPlatformStatistics()
	require.NoError(t, err)
	assert.Zero(t, stats.Overview.TotalUsers)
	assert.Empty(t, stats.MentorBreakdown)
	require.Len(t, stats.MonthlyUsers, 12)
}
