package service

import (
	"fmt"
	"time"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/util"
)

// signupHistoryMonths is how far back the monthly signup chart reaches
const signupHistoryMonths = 12

// StatsService aggregates platform-wide numbers for the admin dashboard
type StatsService struct {
	userRepo domain.UserRepository
	saleRepo domain.SaleRepository
	now      func() time.Time
}

func NewStatsService(userRepo domain.UserRepository, saleRepo domain.SaleRepository) *StatsService {
	return &StatsService{
		userRepo: userRepo,
		saleRepo: saleRepo,
		now:      time.Now,
	}
}

// GetPlatformStatistics builds the admin statistics page payload
func (s *StatsService) GetPlatformStatistics() (*domain.PlatformStatistics, error) {
	admins, err := s.userRepo.CountByRole(domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	mentors, err := s.userRepo.CountByRole(domain.RoleMentor)
	if err != nil {
		return nil, err
	}
	entrepreneurs, err := s.userRepo.CountByRole(domain.RoleUser)
	if err != nil {
		return nil, err
	}
	withMentor, err := s.userRepo.CountWithMentor()
	if err != nil {
		return nil, err
	}

	overview := &domain.PlatformOverview{
		TotalUsers:         admins + mentors + entrepreneurs,
		TotalAdmins:        admins,
		TotalMentors:       mentors,
		TotalEntrepreneurs: entrepreneurs,
		UsersWithMentor:    withMentor,
		UsersWithoutMentor: entrepreneurs - withMentor,
	}
	if overview.UsersWithoutMentor < 0 {
		overview.UsersWithoutMentor = 0
	}

	breakdown, err := s.mentorBreakdown()
	if err != nil {
		return nil, err
	}

	monthly, err := s.monthlySignups()
	if err != nil {
		return nil, err
	}

	return &domain.PlatformStatistics{
		Overview: overview,
		RoleDistribution: []*domain.RoleCount{
			{Role: domain.RoleAdmin, Count: admins},
			{Role: domain.RoleMentor, Count: mentors},
			{Role: domain.RoleUser, Count: entrepreneurs},
		},
		MentorAssignment: []*domain.MentorAssignmentCount{
			{Status: "with_mentor", Count: withMentor},
			{Status: "without_mentor", Count: overview.UsersWithoutMentor},
		},
		MentorBreakdown: breakdown,
		MonthlyUsers:    monthly,
	}, nil
}

// GetMentorPerformance reports, per mentor, how many mentees recorded at
// least one sale in the current month.
func (s *StatsService) GetMentorPerformance() ([]*domain.MentorPerformance, error) {
	mentors, err := s.userRepo.GetByRole(domain.RoleMentor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start, end := util.MonthBoundaries(now.Year(), int(now.Month()))

	performance := make([]*domain.MentorPerformance, 0, len(mentors))
	for _, mentor := range mentors {
		mentees, err := s.userRepo.GetMentees(mentor.ID)
		if err != nil {
			return nil, err
		}
		mentorID := mentor.ID
		active, err := s.saleRepo.CountUsersWithSales(&mentorID, start, end)
		if err != nil {
			return nil, err
		}
		performance = append(performance, &domain.MentorPerformance{
			MentorID:      mentor.ID,
			Mentor:        mentor.Username,
			Mentees:       int64(len(mentees)),
			ActiveMentees: active,
		})
	}
	return performance, nil
}

func (s *StatsService) mentorBreakdown() ([]*domain.MentorLoad, error) {
	mentors, err := s.userRepo.GetByRole(domain.RoleMentor)
	if err != nil {
		return nil, err
	}
	breakdown := make([]*domain.MentorLoad, 0, len(mentors))
	for _, mentor := range mentors {
		mentees, err := s.userRepo.GetMentees(mentor.ID)
		if err != nil {
			return nil, err
		}
		breakdown = append(breakdown, &domain.MentorLoad{
			Mentor: mentor.Username,
			Count:  int64(len(mentees)),
		})
	}
	return breakdown, nil
}

// monthlySignups returns one bucket per month for the trailing year,
// including empty months, oldest first.
func (s *StatsService) monthlySignups() ([]*domain.MonthlySignup, error) {
	now := s.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(signupHistoryMonths - 1), 0)

	counts, err := s.userRepo.CountSignupsByMonth(since)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]int64, len(counts))
	for _, c := range counts {
		byMonth[fmt.Sprintf("%04d-%02d", c.Year, c.Month)] = c.Count
	}

	monthly := make([]*domain.MonthlySignup, 0, signupHistoryMonths)
	for i := 0; i < signupHistoryMonths; i++ {
		m := since.AddDate(0, i, 0)
		label := util.FormatMonthLabel(m.Year(), int(m.Month()))
		monthly = append(monthly, &domain.MonthlySignup{
			Month: label,
			Count: byMonth[label],
		})
	}
	return monthly, nil
}
