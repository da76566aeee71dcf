package service

import (
	"errors"

	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/repository"
)

var repoErrors = []struct {
	sentinel error
	appErr   *apperror.AppError
}{
	{repository.ErrJobSeekerNotFound, apperror.ErrJobSeekerNotFound},
	{repository.ErrCompanyNotFound, apperror.ErrCompanyNotFound},
	{repository.ErrPostingNotFound, apperror.ErrPostingNotFound},
	{repository.ErrApplicationNotFound, apperror.ErrApplicationNotFound},
	{repository.ErrAdminNotFound, apperror.ErrAdminNotFound},
	{repository.ErrApplicationExists, apperror.ErrDuplicateApplication},
	{repository.ErrRatingExists, apperror.ErrDuplicateRating},
	{repository.ErrEmailExists, apperror.ErrEmailTaken},
	{repository.ErrCNPJExists, apperror.ErrCNPJTaken},
	{repository.ErrNotificationNotFound, apperror.New(apperror.ErrCodeNotFound, "notificação não encontrada")},
	{repository.ErrPostingStatusConflict, apperror.New(apperror.ErrCodeInvalidState, "o status do trabalho não permite esta operação")},
}

// translate переводит ошибки хранилища в AppError. AppError возвращается как есть.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	for _, e := range repoErrors {
		if errors.Is(err, e.sentinel) {
			return e.appErr
		}
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "erro ao acessar o banco de dados")
}

// validationError оборачивает ошибку пакета validation.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return apperror.New(apperror.ErrCodeValidation, err.Error())
}

// firstError возвращает первую ненулевую ошибку.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
