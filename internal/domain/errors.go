package domain

import "errors"

// ErrInvalidData is the uniform failure returned for every validation or
// not-found condition. The response surface never distinguishes causes;
// only log lines carry the specific reason.
var ErrInvalidData = errors.New("invalid data")

var (
	ErrInvalidPlate       = errors.New("invalid plate")
	ErrInvalidCnpj        = errors.New("invalid cnpj")
	ErrInvalidCnh         = errors.New("invalid cnh")
	ErrInvalidLicenseType = errors.New("invalid driver license type")
	ErrInvalidEvent       = errors.New("invalid fleet creation event")
)
