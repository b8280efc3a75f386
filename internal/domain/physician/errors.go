package physician

import "errors"

var (
	ErrPhysicianNotFound      = errors.New("physician not found")
	ErrPhysicianAlreadyExists = errors.New("physician with this license number already exists")
)
