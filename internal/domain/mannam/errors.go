package mannam

import apperrors "moim-app-go/pkg/errors"

var (
	ErrMannamNotFound      = apperrors.New(apperrors.CodeNotFound, "mannam not found")
	ErrNotMoimMember       = apperrors.New(apperrors.CodeForbidden, "not a member of this moim")
	ErrMoimRequired        = apperrors.New(apperrors.CodeValidation, "moim id is required")
	ErrTitleRequired       = apperrors.New(apperrors.CodeValidation, "title is required")
	ErrTitleTooLong        = apperrors.New(apperrors.CodeValidation, "title is too long")
	ErrInvalidDuration     = apperrors.New(apperrors.CodeValidation, "duration must be between 0 and 525600 minutes")
	ErrInvalidDateRange    = apperrors.New(apperrors.CodeValidation, "end date is before start date")
	ErrInvalidStatus       = apperrors.New(apperrors.CodeValidation, "status must be confirmed or cancelled")
	ErrInvalidResponse     = apperrors.New(apperrors.CodeValidation, "response must be available, unavailable or maybe")
	ErrInvalidTransition   = apperrors.New(apperrors.CodeStateConflict, "mannam is no longer pending")
	ErrDuplicateMannam     = apperrors.New(apperrors.CodeConflict, "mannam url already taken")
	ErrURLGenerationFailed = apperrors.New(apperrors.CodeInternal, "mannam url generation failed")
)
