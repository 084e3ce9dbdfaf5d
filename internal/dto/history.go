package dto

// RecordHistoryRequest records a visit or resume of a resource.
type RecordHistoryRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Resume bool   `json:"resume"`
}
