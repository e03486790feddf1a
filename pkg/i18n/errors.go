package i18n

import "errors"

var (
	ErrNilAdapter           = errors.New("translation adapter is nil")
	ErrLanguageNotSupported = errors.New("language not supported")
	ErrEmptyLanguageCode    = errors.New("empty language code")

	ErrFailedToParseJSON = errors.New("failed to parse JSON content")
	ErrFailedToParseYAML = errors.New("failed to parse YAML content")
	ErrInvalidStructure  = errors.New("invalid translation file structure")

	ErrLoadingCancelled = errors.New("loading translations cancelled")
	ErrFailedToReadFile = errors.New("failed to read translation file")
	ErrFailedToWalkFS   = errors.New("failed to walk translation file system")
)
