package valueobject

import "github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"

// ApplicationStatus - статус candidatura.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationDeclined  ApplicationStatus = "declined"
	ApplicationCancelled ApplicationStatus = "cancelled"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationDeclined, ApplicationCancelled:
		return true
	}
	return false
}

// CanTransitionTo: pending -> accepted | declined; pending|accepted -> cancelled.
func (s ApplicationStatus) CanTransitionTo(newStatus ApplicationStatus) bool {
	transitions := map[ApplicationStatus][]ApplicationStatus{
		ApplicationPending:   {ApplicationAccepted, ApplicationDeclined, ApplicationCancelled},
		ApplicationAccepted:  {ApplicationCancelled},
		ApplicationDeclined:  {},
		ApplicationCancelled: {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

// PostingStatus - статус вакансии (trabalho).
type PostingStatus string

const (
	PostingDraft      PostingStatus = "draft"
	PostingOpen       PostingStatus = "open"
	PostingInProgress PostingStatus = "in_progress"
	PostingCompleted  PostingStatus = "completed"
	PostingCancelled  PostingStatus = "cancelled"
)

func (s PostingStatus) IsValid() bool {
	switch s {
	case PostingDraft, PostingOpen, PostingInProgress, PostingCompleted, PostingCancelled:
		return true
	}
	return false
}

// IsTerminal сообщает, что вакансия закрыта окончательно.
func (s PostingStatus) IsTerminal() bool {
	return s == PostingCompleted || s == PostingCancelled
}

func (s PostingStatus) CanTransitionTo(newStatus PostingStatus) bool {
	transitions := map[PostingStatus][]PostingStatus{
		PostingDraft:      {PostingOpen, PostingCancelled},
		PostingOpen:       {PostingInProgress, PostingCompleted, PostingCancelled},
		PostingInProgress: {PostingCompleted, PostingCancelled},
		PostingCompleted:  {},
		PostingCancelled:  {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewPostingStatus(status string) (PostingStatus, error) {
	s := PostingStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "status de trabalho inválido")
	}
	return s, nil
}

// CompanyStatus - статус одобрения компании администратором.
type CompanyStatus string

const (
	CompanyPending   CompanyStatus = "pending"
	CompanyActive    CompanyStatus = "active"
	CompanySuspended CompanyStatus = "suspended"
)

func (s CompanyStatus) IsValid() bool {
	switch s {
	case CompanyPending, CompanyActive, CompanySuspended:
		return true
	}
	return false
}

func NewCompanyStatus(status string) (CompanyStatus, error) {
	s := CompanyStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "status de empresa inválido")
	}
	return s, nil
}

// SeekerStatus - статус аккаунта соискателя.
type SeekerStatus string

const (
	SeekerActive    SeekerStatus = "active"
	SeekerSuspended SeekerStatus = "suspended"
)

func (s SeekerStatus) IsValid() bool {
	return s == SeekerActive || s == SeekerSuspended
}

func NewSeekerStatus(status string) (SeekerStatus, error) {
	s := SeekerStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "status de colaborador inválido")
	}
	return s, nil
}
