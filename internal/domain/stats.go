package domain

// PlatformOverview is the headline counters block of the statistics page.
type PlatformOverview struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalAdmins        int64 `json:"totalAdmins"`
	TotalMentors       int64 `json:"totalMentors"`
	TotalEntrepreneurs int64 `json:"totalEntrepreneurs"`
	UsersWithMentor    int64 `json:"usersWithMentor"`
	UsersWithoutMentor int64 `json:"usersWithoutMentor"`
}

type RoleCount struct {
	Role  Role  `json:"role"`
	Count int64 `json:"count"`
}

type MentorAssignmentCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// MentorLoad is the number of mentees assigned to one mentor.
type MentorLoad struct {
	Mentor string `json:"mentor"`
	Count  int64  `json:"count"`
}

type MonthlySignup struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

type PlatformStatistics struct {
	Overview         *PlatformOverview        `json:"overview"`
	RoleDistribution []*RoleCount             `json:"roleDistribution"`
	MentorAssignment []*MentorAssignmentCount `json:"mentorAssignment"`
	MentorBreakdown  []*MentorLoad            `json:"mentorBreakdown"`
	MonthlyUsers     []*MonthlySignup         `json:"monthlyUsers"`
}

// MentorPerformance describes one mentor's mentees and how many of them
// recorded at least one sale in the current month.
type MentorPerformance struct {
	MentorID       int32  `json:"mentorId"`
	Mentor         string `json:"mentor"`
	Mentees        int64  `json:"mentees"`
	ActiveMentees  int64  `json:"activeMentees"`
}
