package klever

import "errors"

var (
	ErrAssetIDRequired  = errors.New("asset id is required")
	ErrInvalidAssetID   = errors.New("invalid asset id format")
	ErrSchemaValidation = errors.New("klever api response failed schema validation")
	ErrAPIError         = errors.New("klever api error")

	errFieldMissing = errors.New("field is missing")
)
