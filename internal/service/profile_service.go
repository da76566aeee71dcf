package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/storage"
	"github.com/ignatzorin/extrasite-backend/internal/validation"
)

type JobSeekerProfiles interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.JobSeekerProfileUpdate) (*models.JobSeeker, error)
	UpdatePhoto(ctx context.Context, id uuid.UUID, path string) (*string, error)
}

type CompanyProfiles interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.CompanyProfileUpdate) (*models.Company, error)
	UpdateLogo(ctx context.Context, id uuid.UUID, path string) (*string, error)
}

// ImageStore - хранилище загруженных изображений.
type ImageStore interface {
	Save(ctx context.Context, folder, originalName string, r io.Reader) (string, error)
	Delete(ctx context.Context, reference string) error
}

// JobSeekerProfile - профиль соискателя со средней оценкой.
type JobSeekerProfile struct {
	*models.JobSeeker
	Rating float64 `json:"rating"`
}

// CompanyProfile - профиль компании со средней оценкой.
type CompanyProfile struct {
	*models.Company
	Rating float64 `json:"rating"`
}

// ProfileService управляет профилями соискателей и компаний.
type ProfileService struct {
	seekers   JobSeekerProfiles
	companies CompanyProfiles
	images    ImageStore
}

func NewProfileService(seekers JobSeekerProfiles, companies CompanyProfiles, images ImageStore) *ProfileService {
	return &ProfileService{seekers: seekers, companies: companies, images: images}
}

func (s *ProfileService) GetJobSeeker(ctx context.Context, id uuid.UUID) (*JobSeekerProfile, error) {
	seeker, err := s.seekers.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return &JobSeekerProfile{JobSeeker: seeker, Rating: seeker.Rating().Mean()}, nil
}

// UpdateJobSeekerInput - редактируемые поля профиля соискателя.
type UpdateJobSeekerInput struct {
	Name       string  `json:"name"`
	Phone      *string `json:"phone"`
	University *string `json:"university"`
	Bio        *string `json:"bio"`
	Skills     *string `json:"skills"`
	PixKey     *string `json:"pix_key"`
}

func (s *ProfileService) UpdateJobSeeker(ctx context.Context, actor vo.Actor, in UpdateJobSeekerInput) (*JobSeekerProfile, error) {
	if !actor.Is(vo.RoleJobSeeker) {
		return nil, apperror.ErrForbidden
	}

	upd := models.JobSeekerProfileUpdate{
		Name:       strings.TrimSpace(in.Name),
		Phone:      trimOptional(in.Phone),
		University: trimOptional(in.University),
		Bio:        trimOptional(in.Bio),
		Skills:     trimOptional(in.Skills),
		PixKey:     trimOptional(in.PixKey),
	}
	if err := firstError(
		validation.ValidateName("nome", upd.Name),
		validation.ValidateOptional("universidade", upd.University, validation.MaxNameLength),
		validation.ValidateOptional("bio", upd.Bio, validation.MaxBioLength),
		validation.ValidateOptional("habilidades", upd.Skills, validation.MaxSkillsLength),
		validation.ValidateOptional("chave PIX", upd.PixKey, validation.MaxPixKeyLength),
	); err != nil {
		return nil, validationError(err)
	}
	if upd.Phone != nil {
		if err := validation.ValidatePhone(*upd.Phone); err != nil {
			return nil, validationError(err)
		}
	}

	seeker, err := s.seekers.UpdateProfile(ctx, actor.ID, upd)
	if err != nil {
		return nil, translate(err)
	}
	return &JobSeekerProfile{JobSeeker: seeker, Rating: seeker.Rating().Mean()}, nil
}

// UploadJobSeekerPhoto сохраняет фото и удаляет предыдущее.
func (s *ProfileService) UploadJobSeekerPhoto(ctx context.Context, actor vo.Actor, filename string, r io.Reader) (string, error) {
	if !actor.Is(vo.RoleJobSeeker) {
		return "", apperror.ErrForbidden
	}
	return s.replaceImage(ctx, storage.FolderProfiles, filename, r, func(ref string) (*string, error) {
		return s.seekers.UpdatePhoto(ctx, actor.ID, ref)
	})
}

func (s *ProfileService) GetCompany(ctx context.Context, id uuid.UUID) (*CompanyProfile, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return &CompanyProfile{Company: company, Rating: company.Rating().Mean()}, nil
}

// UpdateCompanyInput - редактируемые поля профиля компании. Razão social и CNPJ не меняются.
type UpdateCompanyInput struct {
	TradeName     string  `json:"nome_fantasia"`
	Phone         string  `json:"phone"`
	ContactPerson string  `json:"contact_person"`
	Street        *string `json:"street"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PostalCode    *string `json:"cep"`
}

func (s *ProfileService) UpdateCompany(ctx context.Context, actor vo.Actor, in UpdateCompanyInput) (*CompanyProfile, error) {
	if !actor.Is(vo.RoleCompany) {
		return nil, apperror.ErrForbidden
	}

	upd := models.CompanyProfileUpdate{
		TradeName:     strings.TrimSpace(in.TradeName),
		Phone:         validation.DigitsOnly(in.Phone),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Street:        trimOptional(in.Street),
		City:          strings.TrimSpace(in.City),
		State:         strings.ToUpper(strings.TrimSpace(in.State)),
		PostalCode:    trimOptional(in.PostalCode),
	}
	if err := firstError(
		validation.ValidateName("nome fantasia", upd.TradeName),
		validation.ValidatePhone(upd.Phone),
		validation.ValidateName("responsável", upd.ContactPerson),
		validation.ValidateNonEmpty("cidade", upd.City),
		validation.ValidateState(upd.State),
	); err != nil {
		return nil, validationError(err)
	}

	company, err := s.companies.UpdateProfile(ctx, actor.ID, upd)
	if err != nil {
		return nil, translate(err)
	}
	return &CompanyProfile{Company: company, Rating: company.Rating().Mean()}, nil
}

// UploadCompanyLogo сохраняет логотип и удаляет предыдущий.
func (s *ProfileService) UploadCompanyLogo(ctx context.Context, actor vo.Actor, filename string, r io.Reader) (string, error) {
	if !actor.Is(vo.RoleCompany) {
		return "", apperror.ErrForbidden
	}
	return s.replaceImage(ctx, storage.FolderLogos, filename, r, func(ref string) (*string, error) {
		return s.companies.UpdateLogo(ctx, actor.ID, ref)
	})
}

// replaceImage сохраняет новый файл, записывает ссылку и удаляет старый файл.
// Если запись в БД не удалась, новый файл удаляется.
func (s *ProfileService) replaceImage(ctx context.Context, folder, filename string, r io.Reader, store func(ref string) (*string, error)) (string, error) {
	ref, err := s.images.Save(ctx, folder, filename, r)
	if err != nil {
		return "", storageError(err)
	}

	log := logger.Component("profiles").WithField("reference", ref)

	previous, err := store(ref)
	if err != nil {
		if delErr := s.images.Delete(ctx, ref); delErr != nil {
			log.WithError(delErr).Warn("failed to remove orphan upload")
		}
		return "", translate(err)
	}

	if previous != nil && *previous != "" && *previous != ref {
		if err := s.images.Delete(ctx, *previous); err != nil {
			log.WithError(err).WithField("previous", *previous).Warn("failed to remove previous image")
		}
	}
	return ref, nil
}

func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return apperror.New(apperror.ErrCodeValidation, "formato não suportado, envie png, jpg ou gif")
	case errors.Is(err, storage.ErrExtensionMismatch):
		return apperror.New(apperror.ErrCodeValidation, "a extensão do arquivo não corresponde ao conteúdo")
	case errors.Is(err, storage.ErrTooLarge):
		return apperror.New(apperror.ErrCodeValidation, "arquivo muito grande")
	case errors.Is(err, storage.ErrEmpty):
		return apperror.New(apperror.ErrCodeValidation, "arquivo vazio")
	}
	return apperror.Wrap(err, apperror.ErrCodeInternal, "não foi possível salvar o arquivo")
}
