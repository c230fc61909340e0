package moim

import apperrors "moim-app-go/pkg/errors"

var (
	ErrMoimNotFound         = apperrors.New(apperrors.CodeNotFound, "moim not found")
	ErrParticipantNotFound  = apperrors.New(apperrors.CodeNotFound, "participant not found")
	ErrAlreadyParticipant   = apperrors.New(apperrors.CodeConflict, "already a participant")
	ErrDuplicateMoim        = apperrors.New(apperrors.CodeConflict, "invite code already taken")
	ErrCodeGenerationFailed = apperrors.New(apperrors.CodeInternal, "invite code generation failed")
	ErrTitleRequired        = apperrors.New(apperrors.CodeValidation, "title is required")
	ErrTitleTooLong         = apperrors.New(apperrors.CodeValidation, "title is too long")
	ErrInviteCodeRequired   = apperrors.New(apperrors.CodeValidation, "invite code is required")
)
