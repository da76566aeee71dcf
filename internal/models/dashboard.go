package models

// AdminDashboard - счётчики главной страницы администратора.
type AdminDashboard struct {
	CompaniesPending int       `db:"companies_pending" json:"companies_pending"`
	CompaniesActive  int       `db:"companies_active" json:"companies_active"`
	JobSeekers       int       `db:"job_seekers" json:"job_seekers"`
	PostingsTotal    int       `db:"postings_total" json:"postings_total"`
	PostingsOpen     int       `db:"postings_open" json:"postings_open"`
	PendingApprovals []Company `db:"-" json:"pending_approvals"`
}

// CompanyDashboard - счётчики компании.
type CompanyDashboard struct {
	PostingsOpen        int `db:"postings_open" json:"postings_open"`
	PostingsInProgress  int `db:"postings_in_progress" json:"postings_in_progress"`
	PostingsCompleted   int `db:"postings_completed" json:"postings_completed"`
	PendingApplications int `db:"pending_applications" json:"pending_applications"`
}

// JobSeekerDashboard - счётчики соискателя.
type JobSeekerDashboard struct {
	Pending   int     `db:"pending" json:"pending"`
	Accepted  int     `db:"accepted" json:"accepted"`
	Declined  int     `db:"declined" json:"declined"`
	Cancelled int     `db:"cancelled" json:"cancelled"`
	Rating    float64 `db:"-" json:"rating"`
	Ratings   int     `db:"-" json:"rating_count"`
	TotalJobs int     `db:"-" json:"total_jobs"`
}
